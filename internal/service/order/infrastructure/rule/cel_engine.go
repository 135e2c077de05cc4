// internal/service/order/infrastructure/rule/cel_engine.go
package rule

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
)

// CELRuleEngine 用 CEL 表达式求值业务规则，例如免运费判定。
// 编译结果按表达式缓存，重复求值只付出一次编译成本。
type CELRuleEngine struct {
	mu       sync.RWMutex
	programs map[string]cel.Program
}

func NewCELRuleEngine() *CELRuleEngine {
	return &CELRuleEngine{programs: make(map[string]cel.Program)}
}

// Evaluate 对 fact 求值 ruleDefinition，表达式必须返回布尔值。
func (e *CELRuleEngine) Evaluate(ruleDefinition string, fact map[string]interface{}) (bool, error) {
	prg, err := e.program(ruleDefinition, fact)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(fact)
	if err != nil {
		return false, errors.Wrap(err, "rule evaluation failed")
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("rule %q did not return a boolean", ruleDefinition)
	}
	return result, nil
}

func (e *CELRuleEngine) program(ruleDefinition string, fact map[string]interface{}) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[ruleDefinition]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	opts := make([]cel.EnvOption, 0, len(fact))
	for name := range fact {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "build rule env failed")
	}

	ast, issues := env.Compile(ruleDefinition)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "compile rule %q failed", ruleDefinition)
	}
	prg, err = env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build rule program failed")
	}

	e.mu.Lock()
	e.programs[ruleDefinition] = prg
	e.mu.Unlock()
	return prg, nil
}
