package healthmonitor

import "context"

// Indicator is one thing the composite probe checks: registered MCP
// servers, the language model, transport connection pools, or process
// resources. Indicators register themselves into a Monitor explicitly
// at bootstrap — there is no
// reflection-based scanning here.
type Indicator interface {
	Name() string
	Check(ctx context.Context) (healthy bool, detail string, err error)
}

// IndicatorFunc adapts a plain function to the Indicator interface.
type IndicatorFunc struct {
	IndicatorName string
	Fn            func(ctx context.Context) (bool, string, error)
}

func (f IndicatorFunc) Name() string { return f.IndicatorName }

func (f IndicatorFunc) Check(ctx context.Context) (bool, string, error) {
	return f.Fn(ctx)
}
