package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldBudgetID    = "budget_id"
	FieldBudgetName  = "budget_name"
	FieldAccountID   = "account_id"
	FieldCategory    = "category"
	FieldPeriod      = "period"
	FieldAmountCents = "amount_cents"
	FieldSpentCents  = "spent_cents"
	FieldStatusTier  = "status_tier"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentBudget   = "budget"
	ComponentAccount  = "account"
	ComponentStorage  = "storage"
	ComponentNotify   = "notify"
	ComponentWorker   = "worker"
	ComponentExport   = "export"
	ComponentCache    = "cache"
	ComponentTrace    = "trace"
	ComponentCurrency = "currency"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithBudget adds budget-related fields
func (f LogFields) WithBudget(id, name string, amountCents int64, period string) LogFields {
	f[FieldBudgetID] = id
	f[FieldBudgetName] = name
	f[FieldAmountCents] = amountCents
	f[FieldPeriod] = period
	return f
}

// WithAccount adds the owning account field
func (f LogFields) WithAccount(accountID string) LogFields {
	f[FieldAccountID] = accountID
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
