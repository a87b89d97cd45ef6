package campaigns

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/config"
)

// StepDefinition describes one invocation outside the host: the inputs, the
// environment and the provider credentials. Values may reference process
// environment variables as ${NAME} or ${NAME:default}.
//
//	inputs:
//	  type: [regular, rss]
//	  count: 10
//	environment:
//	  mailchimp_server: us6
//	credentials:
//	  mailchimp:
//	    access_token: ${MAILCHIMP_ACCESS_TOKEN}
type StepDefinition struct {
	Inputs         map[string]interface{}
	Environment    map[string]string
	Credentials    map[string]map[string]string
	RecordRequests bool
}

// LoadStepDefinition reads and merges YAML sources, later sources overriding earlier ones.
func LoadStepDefinition(lookup func(string) (string, bool), sources ...io.Reader) (StepDefinition, error) {
	var result StepDefinition
	var options []config.YAMLOption
	for _, s := range sources {
		options = append(options, config.Source(s))
	}
	if lookup != nil {
		options = append(options, config.Expand(lookup))
	}
	yaml, err := config.NewYAML(options...)
	if err != nil {
		return result, fmt.Errorf("failed to read yaml config %w", err)
	}
	readError := func(key string, cause error) error {
		return fmt.Errorf("failed to read '%s' from yaml config %w", key, cause)
	}

	key := "inputs"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.Inputs)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "environment"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.Environment)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "credentials"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.Credentials)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "recordRequests"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.RecordRequests)
		if err != nil {
			return result, readError(key, err)
		}
	}

	return result, nil
}

// LoadStepDefinitionFile reads a definition file, expanding references from the process environment.
func LoadStepDefinitionFile(name string) (StepDefinition, error) {
	f, err := os.Open(name)
	if err != nil {
		return StepDefinition{}, fmt.Errorf("failed to open step definition %w", err)
	}
	defer f.Close()
	return LoadStepDefinition(os.LookupEnv, f)
}

// StepContext returns the host view of the definition.
func (d StepDefinition) StepContext() StepContext {
	return StepContext{
		Inputs:      d.Inputs,
		Environment: MapEnvironment(d.Environment),
		Credentials: MapCredentials(d.Credentials),
	}
}
