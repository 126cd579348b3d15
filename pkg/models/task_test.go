package models

import "testing"

func TestTaskQueue_FIFOOrder(t *testing.T) {
	q := NewTaskQueue([]Task{
		{Device: DeviceAudioSystem, Action: "play relaxing music"},
		{Device: DeviceLighting, Action: "dim the lights"},
		{Device: DeviceThermostat, Action: "set a comfortable temperature"},
	})

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}

	want := []DeviceID{DeviceAudioSystem, DeviceLighting, DeviceThermostat}
	for i, device := range want {
		head, ok := q.Head()
		if !ok {
			t.Fatalf("Head() at position %d: queue unexpectedly empty", i)
		}
		if head.Device != device {
			t.Errorf("Head() at position %d device = %q, want %q", i, head.Device, device)
		}

		popped, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() at position %d: queue unexpectedly empty", i)
		}
		if popped.Device != device {
			t.Errorf("Pop() at position %d device = %q, want %q", i, popped.Device, device)
		}
	}

	if !q.Empty() {
		t.Errorf("queue not empty after popping all tasks, Len() = %d", q.Len())
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue returned ok = true")
	}
}

func TestTaskQueue_HeadDoesNotConsume(t *testing.T) {
	q := NewTaskQueue([]Task{{Device: DeviceFridge, Action: "what's in the fridge"}})

	for i := 0; i < 3; i++ {
		if _, ok := q.Head(); !ok {
			t.Fatalf("Head() call %d: queue unexpectedly empty", i)
		}
	}
	if q.Len() != 1 {
		t.Errorf("Len() after repeated Head() = %d, want 1", q.Len())
	}
}

func TestTaskQueue_SnapshotIsCopy(t *testing.T) {
	q := NewTaskQueue([]Task{
		{Device: DeviceClock, Action: "set alarm at 7am"},
		{Device: DeviceCalendar, Action: "check today's schedule"},
	})

	snap := q.Snapshot()
	snap[0].Action = "mutated"

	head, _ := q.Head()
	if head.Action != "set alarm at 7am" {
		t.Errorf("mutating snapshot changed queue head action to %q", head.Action)
	}
}

func TestNewTaskQueue_CopiesInput(t *testing.T) {
	tasks := []Task{{Device: DeviceClock, Action: "set timer for 30 minutes"}}
	q := NewTaskQueue(tasks)

	tasks[0].Action = "mutated"

	head, _ := q.Head()
	if head.Action != "set timer for 30 minutes" {
		t.Errorf("mutating input slice changed queue head action to %q", head.Action)
	}
}
