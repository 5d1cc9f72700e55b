package models

const (
	TableBookings  = "bookings"
	TableCustomers = "customers"
	TableAuditLogs = "cleanup_audit_logs"
)

// ForTable returns a zero model for a known table, nil otherwise.
func ForTable(table string) any {
	switch table {
	case TableBookings:
		return &Booking{}
	case TableCustomers:
		return &Customer{}
	case TableAuditLogs:
		return &AuditLog{}
	}
	return nil
}
