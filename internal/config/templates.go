package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const templateHeader = `# mcorder client configuration.
# trade_addr: multicast group receiving order submit/cancel frames.
# result_addr: multicast group publishing trade and status broadcasts.
# ttl: outbound multicast hop limit (0-255).
# price_decimals: decimal places accepted by "submit -price"; 0 sends prices as given.
# metrics_addr: host:port for /health and /metrics; empty disables.
`

// Template renders the default configuration as TOML.
func Template() (string, error) {
	body, err := toml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("config template: %w", err)
	}
	return templateHeader + string(body), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}
