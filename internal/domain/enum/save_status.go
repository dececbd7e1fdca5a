package enum

// SaveStatus tracks the register's outbound save attempt, independent of the
// sale's payment status.
type SaveStatus string

const (
	SaveStatusIdle    SaveStatus = "idle"
	SaveStatusSaving  SaveStatus = "saving"
	SaveStatusSuccess SaveStatus = "success"
	SaveStatusError   SaveStatus = "error"
)

func (s SaveStatus) String() string {
	return string(s)
}
