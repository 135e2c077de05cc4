// internal/service/order/domain/port/rule.go
package port

// RuleEngine 评估一条配置化的业务规则。
// fact 是规则可见的变量集合，实现负责把它适配到具体引擎。
type RuleEngine interface {
	Evaluate(ruleDefinition string, fact map[string]interface{}) (bool, error)
}
