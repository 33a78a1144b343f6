package event

// NestedFixture is the canonical two-level sample: two Begin records of
// "First event" followed by two End records, all on process 7, thread 576.
// The second Begin reuses an open name, so name-keyed correlation only
// closes the outer pair (552045 - 172045 microseconds).
func NestedFixture() List {
	return List{
		{Name: "First event", ProcessID: 7, ThreadID: "576", Timestamp: 172045, Phase: PhaseBegin},
		{Name: "First event", ProcessID: 7, ThreadID: "576", Timestamp: 172060, Phase: PhaseBegin},
		{Name: "First event", ProcessID: 7, ThreadID: "576", Timestamp: 552045, Phase: PhaseEnd},
		{Name: "First event", ProcessID: 7, ThreadID: "576", Timestamp: 552050, Phase: PhaseEnd},
	}
}

// NestedFixtureJSON is NestedFixture as written by the tracer, timestamps
// quoted the way the native producer emits them.
const NestedFixtureJSON = `[
{"cat": "DEFAULT", "pid": 7, "tid": 576, "ts": "172045", "ph": "B", "name": "First event"},
{"cat": "DEFAULT", "pid": 7, "tid": 576, "ts": "172060", "ph": "B", "name": "First event"},
{"cat": "DEFAULT", "pid": 7, "tid": 576, "ts": "552045", "ph": "E", "name": "First event"},
{"cat": "DEFAULT", "pid": 7, "tid": 576, "ts": "552050", "ph": "E", "name": "First event"}
]`
