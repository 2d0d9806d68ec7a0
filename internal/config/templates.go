package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "parent", "wire":
		return wireTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
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

const wireTemplate = `[child]
# empty path runs this binary again in child mode
path = ""
args = ["child"]
env = []
attempts = 3
inherit_stderr = true

[backoff]
initial = "250ms"
multiplier = 2.0
max = "5s"
jitter = true

[stream]
read_buffer = 8192
write_buffer = 8192
max_elements = 67108864

[log]
level = "info"
`
