package ledger

import "fmt"

// Code identifies a caller-visible failure. Codes are stable strings exposed
// in API error payloads.
type Code string

const (
	CodeNegativeOrZeroAmount     Code = "NEGATIVE_OR_ZERO_AMOUNT"
	CodeSplitSumMismatch         Code = "SPLIT_SUM_MISMATCH"
	CodeNegativeShare            Code = "NEGATIVE_SHARE"
	CodeEmptySplit               Code = "EMPTY_SPLIT"
	CodeUnknownSplitType         Code = "UNKNOWN_SPLIT_TYPE"
	CodeNonMemberParticipant     Code = "NON_MEMBER_PARTICIPANT"
	CodePayerNotInDebt           Code = "PAYER_NOT_IN_DEBT"
	CodeRecipientNotOwed         Code = "RECIPIENT_NOT_OWED"
	CodeSettlementExceedsBalance Code = "SETTLEMENT_EXCEEDS_BALANCE"
	CodeNoExistingBalance        Code = "NO_EXISTING_BALANCE"

	CodeGroupNotFound      Code = "GROUP_NOT_FOUND"
	CodeExpenseNotFound    Code = "EXPENSE_NOT_FOUND"
	CodeSettlementNotFound Code = "SETTLEMENT_NOT_FOUND"
)

// ValidationError is a caller-correctable failure. No state is mutated when
// one is returned: the engine checks every precondition before writing.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(code Code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing group, expense or settlement.
type NotFoundError struct {
	Code    Code
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func notFoundf(code Code, format string, args ...any) *NotFoundError {
	return &NotFoundError{Code: code, Message: fmt.Sprintf(format, args...)}
}
