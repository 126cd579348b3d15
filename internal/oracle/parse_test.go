package oracle

import (
	"errors"
	"testing"

	"github.com/hearthkit/hearth/pkg/models"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantInfos int
		wantMods  int
		wantErr   bool
	}{
		{
			name:      "single info",
			response:  `{"infos": ["play relaxing music"], "key_modifiers": ["relaxing"]}`,
			wantInfos: 1,
			wantMods:  1,
		},
		{
			name:      "split feelings",
			response:  `{"infos": ["I'm tired", "need to relax"], "key_modifiers": []}`,
			wantInfos: 2,
			wantMods:  0,
		},
		{
			name:      "fenced JSON survives extraction",
			response:  "```json\n{\"infos\": [\"I'm hungry\"], \"key_modifiers\": []}\n```",
			wantInfos: 1,
		},
		{
			name:     "no JSON object",
			response: "sorry, I cannot help with that",
			wantErr:  true,
		},
		{
			name:     "empty infos",
			response: `{"infos": [], "key_modifiers": []}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntent(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseIntent() error = nil, want error")
				}
				var malformed *MalformedOutputError
				if !errors.As(err, &malformed) {
					t.Errorf("error type = %T, want *MalformedOutputError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIntent() error = %v", err)
			}
			if len(got.Infos) != tt.wantInfos {
				t.Errorf("len(Infos) = %d, want %d", len(got.Infos), tt.wantInfos)
			}
			if len(got.KeyModifiers) != tt.wantMods {
				t.Errorf("len(KeyModifiers) = %d, want %d", len(got.KeyModifiers), tt.wantMods)
			}
			if got.Complexity() != tt.wantInfos {
				t.Errorf("Complexity() = %d, want %d", got.Complexity(), tt.wantInfos)
			}
		})
	}
}

func TestParsePlan(t *testing.T) {
	t.Run("valid multi-task plan", func(t *testing.T) {
		response := `{"task_queue": [
			{"device": "audio_system", "action": "play relaxing music"},
			{"device": "lighting", "action": "dim the lighting"},
			{"device": "thermostat", "action": "set a comfortable temperature"}
		]}`
		tasks, err := ParsePlan(response)
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("len(tasks) = %d, want 3", len(tasks))
		}
		want := []models.DeviceID{models.DeviceAudioSystem, models.DeviceLighting, models.DeviceThermostat}
		for i, device := range want {
			if tasks[i].Device != device {
				t.Errorf("task %d device = %q, want %q", i, tasks[i].Device, device)
			}
		}
	})

	t.Run("unknown device rejected", func(t *testing.T) {
		_, err := ParsePlan(`{"task_queue": [{"device": "toaster", "action": "make toast"}]}`)
		var malformed *MalformedOutputError
		if !errors.As(err, &malformed) {
			t.Fatalf("error = %v, want *MalformedOutputError", err)
		}
		if malformed.Stage != "plan" {
			t.Errorf("Stage = %q, want %q", malformed.Stage, "plan")
		}
	})

	t.Run("empty queue rejected", func(t *testing.T) {
		if _, err := ParsePlan(`{"task_queue": []}`); err == nil {
			t.Error("ParsePlan() error = nil, want error")
		}
	})

	t.Run("missing action rejected", func(t *testing.T) {
		if _, err := ParsePlan(`{"task_queue": [{"device": "clock", "action": "  "}]}`); err == nil {
			t.Error("ParsePlan() error = nil, want error")
		}
	})
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name       string
		worker     models.DeviceID
		response   string
		wantResult string
		wantTarget models.DeviceID
		wantErr    bool
	}{
		{
			name:       "direct result",
			worker:     models.DeviceClock,
			response:   `{"response": "Alarm set for 7:00 AM", "collaboration_request": {}}`,
			wantResult: "Alarm set for 7:00 AM",
		},
		{
			name:       "collaboration request",
			worker:     models.DeviceSearchEngine,
			response:   `{"response": "", "collaboration_request": {"target": "fridge", "request": "what ingredients are available?"}}`,
			wantTarget: models.DeviceFridge,
		},
		{
			name:     "neither shape",
			worker:   models.DeviceClock,
			response: `{"response": "", "collaboration_request": {}}`,
			wantErr:  true,
		},
		{
			name:     "unknown target",
			worker:   models.DeviceClock,
			response: `{"response": "", "collaboration_request": {"target": "robot", "request": "help"}}`,
			wantErr:  true,
		},
		{
			name:     "self target",
			worker:   models.DeviceFridge,
			response: `{"response": "", "collaboration_request": {"target": "fridge", "request": "check inventory"}}`,
			wantErr:  true,
		},
		{
			name:     "target without request text",
			worker:   models.DeviceClock,
			response: `{"response": "", "collaboration_request": {"target": "calendar", "request": ""}}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecision(tt.worker, tt.response)
			if tt.wantErr {
				var malformed *MalformedOutputError
				if !errors.As(err, &malformed) {
					t.Fatalf("error = %v, want *MalformedOutputError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecision() error = %v", err)
			}
			if got.Result != tt.wantResult {
				t.Errorf("Result = %q, want %q", got.Result, tt.wantResult)
			}
			if got.Target != tt.wantTarget {
				t.Errorf("Target = %q, want %q", got.Target, tt.wantTarget)
			}
			if got.NeedsCollaboration() != (tt.wantTarget != "") {
				t.Errorf("NeedsCollaboration() = %v, want %v", got.NeedsCollaboration(), tt.wantTarget != "")
			}
		})
	}
}

func TestParseDirectResponse(t *testing.T) {
	t.Run("direct answer", func(t *testing.T) {
		got, err := ParseDirectResponse("answer", `{"response": "eggs, milk, spinach"}`)
		if err != nil {
			t.Fatalf("ParseDirectResponse() error = %v", err)
		}
		if got != "eggs, milk, spinach" {
			t.Errorf("got %q, want %q", got, "eggs, milk, spinach")
		}
	})

	t.Run("nested collaboration rejected", func(t *testing.T) {
		_, err := ParseDirectResponse("answer",
			`{"response": "", "collaboration_request": {"target": "clock", "request": "time?"}}`)
		var malformed *MalformedOutputError
		if !errors.As(err, &malformed) {
			t.Fatalf("error = %v, want *MalformedOutputError", err)
		}
	})

	t.Run("empty collaboration object tolerated", func(t *testing.T) {
		got, err := ParseDirectResponse("resume", `{"response": "done", "collaboration_request": {}}`)
		if err != nil {
			t.Fatalf("ParseDirectResponse() error = %v", err)
		}
		if got != "done" {
			t.Errorf("got %q, want %q", got, "done")
		}
	})

	t.Run("empty response rejected", func(t *testing.T) {
		if _, err := ParseDirectResponse("resume", `{"response": ""}`); err == nil {
			t.Error("ParseDirectResponse() error = nil, want error")
		}
	})
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		device models.DeviceID
		want   string
	}{
		{models.DeviceClock, "Clock"},
		{models.DeviceSearchEngine, "Search Engine"},
		{models.DeviceTVDisplay, "TV Display"},
		{models.DeviceAudioSystem, "Audio System"},
	}

	for _, tt := range tests {
		t.Run(string(tt.device), func(t *testing.T) {
			if got := displayName(tt.device); got != tt.want {
				t.Errorf("displayName(%q) = %q, want %q", tt.device, got, tt.want)
			}
		})
	}
}
