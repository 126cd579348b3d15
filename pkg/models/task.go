package models

// Task is a unit of work assigned to exactly one device worker.
// Tasks are immutable once planned and are consumed from the head of
// the queue only when they complete.
type Task struct {
	// Device is the worker that owns this task.
	Device DeviceID `json:"device"`
	// Action describes what needs to be done, preserving the details
	// of the user's request.
	Action string `json:"action"`
}

// TaskQueue is the ordered task sequence for one user turn.
// Insertion order is execution order; only the planner mutates it.
type TaskQueue struct {
	tasks []Task
}

// NewTaskQueue creates a queue holding the given tasks in order.
func NewTaskQueue(tasks []Task) *TaskQueue {
	q := &TaskQueue{tasks: make([]Task, len(tasks))}
	copy(q.tasks, tasks)
	return q
}

// Head returns the first task without removing it.
// The second return is false when the queue is empty.
func (q *TaskQueue) Head() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	return q.tasks[0], true
}

// Pop removes and returns the head task.
func (q *TaskQueue) Pop() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	head := q.tasks[0]
	q.tasks = q.tasks[1:]
	return head, true
}

// Len returns the number of remaining tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Empty returns true when no tasks remain.
func (q *TaskQueue) Empty() bool {
	return len(q.tasks) == 0
}

// Snapshot returns a copy of the remaining tasks for tracing.
func (q *TaskQueue) Snapshot() []Task {
	out := make([]Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}
