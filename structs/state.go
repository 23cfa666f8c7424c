package structs

// initStatus is where a BoundValue is in its initialization.
type initStatus uint8

const (
	// statusNotStarted is a field whose offset is not known yet.
	statusNotStarted initStatus = 0
	// statusInProgress is a field being initialized. Reading it means a field
	// depends on itself.
	statusInProgress initStatus = 1
	// statusReady is a field that can be read and written.
	statusReady initStatus = 2
)

func (s initStatus) String() string {
	switch s {
	case statusInProgress:
		return "in progress"
	case statusReady:
		return "ready"
	}
	return "not started"
}
