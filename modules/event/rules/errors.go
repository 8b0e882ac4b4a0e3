package rules

import "fmt"

// Rule names a single scheduling check.
type Rule string

const (
	RuleTimeOrder    Rule = "time_order"
	RuleNoRoom       Rule = "no_room"
	RuleSecondMember Rule = "second_member"
	RuleFutureEvents Rule = "future_events"
	RuleFourWeeks    Rule = "four_weeks"
	RuleOnePerDay    Rule = "one_per_day"
)

// RuleError reports the first rule a candidate event failed. Message is shown
// to the member as is.
type RuleError struct {
	Rule    Rule
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// Is matches any RuleError for the same rule, so errors.Is works against the
// sentinels below regardless of the formatted message.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Rule == e.Rule
}

var (
	ErrTimeOrder            = &RuleError{Rule: RuleTimeOrder, Message: "end time must be after start time"}
	ErrNoRoom               = &RuleError{Rule: RuleNoRoom, Message: "you must select a room"}
	ErrSecondMemberRequired = &RuleError{Rule: RuleSecondMember, Message: "events lasting 24 hours or more must specify second member"}
	ErrFutureEventLimit     = &RuleError{Rule: RuleFutureEvents, Message: "you have reached the limit of future events"}
	ErrFourWeekLimit        = &RuleError{Rule: RuleFourWeeks, Message: "you have reached the limit of events in a 4-week period"}
	ErrOnePerDay            = &RuleError{Rule: RuleOnePerDay, Message: "only one event may start during operating hours on a weekday"}
)

func futureLimitError(max int) *RuleError {
	return &RuleError{
		Rule:    RuleFutureEvents,
		Message: fmt.Sprintf("you may not have more than %d future events", max),
	}
}

func fourWeekLimitError(max int) *RuleError {
	return &RuleError{
		Rule:    RuleFourWeeks,
		Message: fmt.Sprintf("you may not have more than %d events in a 4-week period", max),
	}
}
