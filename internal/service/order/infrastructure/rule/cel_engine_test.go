package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_FreeShippingRule(t *testing.T) {
	engine := NewCELRuleEngine()
	const rule = "total >= 500.0 || quantity >= 10"

	tests := []struct {
		name string
		fact map[string]interface{}
		want bool
	}{
		{"金额达标", map[string]interface{}{"total": 600.0, "quantity": 1}, true},
		{"数量达标", map[string]interface{}{"total": 100.0, "quantity": 12}, true},
		{"都不达标", map[string]interface{}{"total": 100.0, "quantity": 1}, false},
		{"边界值", map[string]interface{}{"total": 500.0, "quantity": 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Evaluate(rule, tt.fact)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_InvalidExpression(t *testing.T) {
	engine := NewCELRuleEngine()

	_, err := engine.Evaluate("total >=", map[string]interface{}{"total": 1.0})
	assert.Error(t, err)
}

func TestEvaluate_NonBooleanResult(t *testing.T) {
	engine := NewCELRuleEngine()

	_, err := engine.Evaluate("total + 1.0", map[string]interface{}{"total": 1.0})
	assert.Error(t, err)
}

func TestEvaluate_CachesCompiledProgram(t *testing.T) {
	engine := NewCELRuleEngine()
	const rule = "quantity > 3"

	got, err := engine.Evaluate(rule, map[string]interface{}{"quantity": 5})
	require.NoError(t, err)
	assert.True(t, got)

	// 第二次命中缓存，结果一致
	got, err = engine.Evaluate(rule, map[string]interface{}{"quantity": 1})
	require.NoError(t, err)
	assert.False(t, got)
	assert.Len(t, engine.programs, 1)
}
