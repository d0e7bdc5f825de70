package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"gopkg.in/yaml.v3"
)

// loadConfig reads a YAML configuration file. Nested keys are flattened
// into dotted keys:
//
//	render:
//	  math-inline: mitex   →   render.math-inline = mitex
//
// An empty path yields an empty configuration.
func loadConfig(path string) (testconfig.Conf, error) {
	conf := testconfig.Conf{}
	if path == "" {
		return conf, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read configuration %s", path)
	}
	var tree map[string]interface{}
	if err = yaml.Unmarshal(b, &tree); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid configuration %s", path)
	}
	flatten(conf, "", tree)
	return conf, nil
}

func flatten(conf testconfig.Conf, prefix string, tree map[string]interface{}) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]interface{}:
			flatten(conf, key, x)
		case nil:
		case bool, int:
			conf[key] = x
		default:
			conf[key] = fmt.Sprintf("%v", x)
		}
	}
}
