package model

const (
	ChannelGateway = "gateway"
	ChannelDirect  = "direct"
)

const (
	StatusReceived  = "received"
	StatusPaid      = "paid"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusFulfilled = "fulfilled"
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// TerminalStatuses lists the states no transition may leave.
func TerminalStatuses() []string {
	return []string{
		StatusFulfilled,
		StatusCompleted,
		StatusRefunded,
		StatusFailed,
		StatusCanceled,
	}
}

func IsTerminal(status string) bool {
	for _, s := range TerminalStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsVendorStatus reports whether status belongs to the direct-order
// vocabulary a vendor may set. Vendors may jump between the non-terminal
// members in any order.
func IsVendorStatus(status string) bool {
	switch status {
	case StatusReceived, StatusPreparing, StatusReady, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}
