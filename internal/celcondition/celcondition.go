package celcondition

import (
	"fmt"

	"github.com/google/cel-go/cel"
	celtypes "github.com/google/cel-go/common/types"
	"github.com/hibiki-works/line-dify-relay/internal/services/relay"
)

// Condition is a compiled CEL expression evaluated against text message events.
//
// Available variables: text, sourceType, userId, groupId, roomId (all strings).
type Condition struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("text", cel.StringType),
		cel.Variable("sourceType", cel.StringType),
		cel.Variable("userId", cel.StringType),
		cel.Variable("groupId", cel.StringType),
		cel.Variable("roomId", cel.StringType),
	)
}

// PrepareCondition compiles celCondition and checks that it evaluates to a bool.
func PrepareCondition(celCondition string) (*Condition, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(celCondition)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("output type is not bool: %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to program CEL expression: %w", err)
	}

	cond := &Condition{expr: celCondition, prg: prg}
	// dry run with empty values to surface runtime errors at startup
	if _, err := cond.Match(relay.TextMessageEvent{}); err != nil {
		return nil, err
	}
	return cond, nil
}

// Match evaluates the condition for event.
func (c *Condition) Match(event relay.TextMessageEvent) (bool, error) {
	vars := map[string]any{
		"text":       event.Text,
		"sourceType": event.Source.Type,
		"userId":     event.Source.UserID,
		"groupId":    event.Source.GroupID,
		"roomId":     event.Source.RoomID,
	}

	out, _, err := c.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL condition: %w", err)
	}
	return out == celtypes.True, nil
}

// String returns the source expression.
func (c *Condition) String() string {
	return c.expr
}
