// Package factory is a generic registry that builds pluggable components,
// such as logbook backends or metric sinks, from a type name and a map of raw
// settings taken from the configuration file.
//
//	reg := factory.NewRegistry[logbook.Logbook]()
//	_ = reg.Register("json", func(conf map[string]any) (logbook.Logbook, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewJSONFileStore(c.Path)
//	})
//	lb, err := reg.Create(factory.ModuleConfig{Type: "json", Conf: map[string]any{"path": "log.json"}})
package factory
