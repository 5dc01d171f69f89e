package commands

import (
	"strings"

	"github.com/aledsdavies/cereal/pkgs/execution"
)

// Operator is an IF comparison
type Operator string

const (
	OpIs          Operator = "IS"
	OpNot         Operator = "NOT"
	OpContains    Operator = "CONTAINS"
	OpNotContains Operator = "NOTCONTAINS"
)

// ParseOperator recognises the literal IF operators
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(s); op {
	case OpIs, OpNot, OpContains, OpNotContains:
		return op, true
	}
	return "", false
}

// Holds applies the operator to two resolved operands
func (op Operator) Holds(left, right string) bool {
	switch op {
	case OpIs:
		return left == right
	case OpNot:
		return left != right
	case OpContains:
		return strings.Contains(left, right)
	case OpNotContains:
		return !strings.Contains(left, right)
	}
	return false
}

// IfCommand opens a conditional block. Any pending skip is cleared first; a
// false comparison then skips everything up to the next ENDIF. There is a
// single skip slot, so an inner IF replaces an outer one.
type IfCommand struct {
	Left     string
	Operator Operator
	Right    string
}

func (c *IfCommand) Execute(ctx *execution.ExecutionContext) error {
	ctx.ClearSkip()

	left := operand(ctx, c.Left)
	right := operand(ctx, c.Right)
	if !c.Operator.Holds(left, right) {
		ctx.SetSkipUntil(ENDIF)
	}
	return nil
}

func (c *IfCommand) Name() string        { return IF }
func (c *IfCommand) IsControlFlow() bool { return true }

func (c *IfCommand) Clone() execution.Command {
	clone := *c
	return &clone
}

// EndIfCommand closes a conditional block
type EndIfCommand struct{}

func (c *EndIfCommand) Execute(ctx *execution.ExecutionContext) error {
	ctx.ClearSkip()
	return nil
}

func (c *EndIfCommand) Name() string             { return ENDIF }
func (c *EndIfCommand) IsControlFlow() bool      { return true }
func (c *EndIfCommand) Clone() execution.Command { return &EndIfCommand{} }

// CompareCommand implements EQ and NEQ, writing TRUE or FALSE to eq_result
type CompareCommand struct {
	keyword string
	Left    string
	Right   string
}

// NewEq creates an EQ command
func NewEq(left, right string) *CompareCommand {
	return &CompareCommand{keyword: EQ, Left: left, Right: right}
}

// NewNeq creates a NEQ command
func NewNeq(left, right string) *CompareCommand {
	return &CompareCommand{keyword: NEQ, Left: left, Right: right}
}

func (c *CompareCommand) Execute(ctx *execution.ExecutionContext) error {
	equal := ctx.Resolve(c.Left) == ctx.Resolve(c.Right)
	if c.keyword == NEQ {
		equal = !equal
	}

	result := False
	if equal {
		result = True
	}
	ctx.SetVariable(EqResultVar, result)
	return nil
}

func (c *CompareCommand) Name() string        { return c.keyword }
func (c *CompareCommand) IsControlFlow() bool { return false }

func (c *CompareCommand) Clone() execution.Command {
	clone := *c
	return &clone
}
