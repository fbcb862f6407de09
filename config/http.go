package config

// HTTPConfig configures the API server started by serve.
type HTTPConfig struct {
	Address string `json:"address"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
}
