// Package generator builds arithmetic question banks.
package generator

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

// DefaultOps is the operator set used when none is given.
const DefaultOps = "+-*/"

// Generator produces randomized arithmetic questions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator drawing from rnd.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// ValidateOps checks that every operator is supported.
func ValidateOps(ops string) error {
	if ops == "" {
		return fmt.Errorf("operator set must not be empty")
	}
	for _, op := range ops {
		switch op {
		case '+', '-', '*', '/':
		default:
			return fmt.Errorf("unsupported operator %q", op)
		}
	}
	return nil
}

// Generate returns count questions over operands in [0, maxOperand].
// Subtraction never goes negative and division is always exact.
func (g *Generator) Generate(count int, ops string, maxOperand int) []model.Question {
	opRunes := []rune(ops)
	result := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		op := opRunes[g.rnd.Intn(len(opRunes))]
		result = append(result, g.question(op, maxOperand))
	}
	return result
}

func (g *Generator) question(op rune, maxOperand int) model.Question {
	a := g.rnd.Intn(maxOperand + 1)
	b := g.rnd.Intn(maxOperand + 1)
	var answer int
	switch op {
	case '+':
		answer = a + b
	case '-':
		if b > a {
			a, b = b, a
		}
		answer = a - b
	case '*':
		answer = a * b
	case '/':
		if b == 0 {
			b = 1
		}
		// a becomes the product so the quotient is whole.
		answer = a
		a = a * b
	}
	return model.Question{
		Prompt: fmt.Sprintf("%d%c%d=?", a, displayOp(op), b),
		Answer: strconv.Itoa(answer),
	}
}

func displayOp(op rune) rune {
	switch op {
	case '*':
		return '×'
	case '/':
		return '÷'
	default:
		return op
	}
}
