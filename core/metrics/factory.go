package metrics

import "github.com/kilianp07/chargelog/core/factory"

var sinkRegistry = factory.NewRegistry[ReportSink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[ReportSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewSink creates a ReportSink from the provided configuration.
func NewSink(cfgs []factory.ModuleConfig) (ReportSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]ReportSink, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			_ = NewMultiSink(sinks...).Close()
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return NewMultiSink(sinks...), nil
}

func init() {
	sinkRegistry.MustRegister("nop", func(map[string]any) (ReportSink, error) {
		return NopSink{}, nil
	})
}
