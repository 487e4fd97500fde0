package confloader

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "MICROBENCH_"

// Loader layers a YAML file, the environment and explicit overrides onto a
// struct that already holds the defaults.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	file      string
	overrides map[string]any
	fileKeys  []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithFile names the YAML file to read. An empty path reads no file.
func WithFile(path string) Option {
	return func(l *Loader) { l.file = path }
}

// WithOverrides sets values that win over every other source. Keys are
// dotted paths such as "storage.dir".
func WithOverrides(m map[string]any) Option {
	return func(l *Loader) { l.overrides = m }
}

// New returns a loader.
func New(opts ...Option) *Loader {
	l := &Loader{k: koanf.New("."), envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads file, environment and overrides, in increasing priority, and
// unmarshals the merged result into target by koanf tags. Fields without a
// loaded key keep their current value.
func (l *Loader) Load(target any) error {
	if l.file != "" {
		if err := l.k.Load(file.Provider(l.file), yaml.Parser()); err != nil {
			return fmt.Errorf("confloader: read %s: %w", l.file, err)
		}
		l.fileKeys = l.k.Keys()
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", l.EnvKey), nil); err != nil {
		return fmt.Errorf("confloader: read env: %w", err)
	}
	if len(l.overrides) > 0 {
		if err := l.k.Load(mapProvider(l.overrides), nil); err != nil {
			return fmt.Errorf("confloader: apply overrides: %w", err)
		}
	}
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("confloader: unmarshal: %w", err)
	}
	return nil
}

// EnvKey maps an environment variable to a configuration key. A double
// underscore separates sections and a single underscore stays part of the
// key: MICROBENCH_BENCH__NUM_SAMPLES -> bench.num_samples.
func (l *Loader) EnvKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// FileKeys returns the dotted keys set by the configuration file, sorted.
func (l *Loader) FileKeys() []string {
	return slices.Sorted(slices.Values(l.fileKeys))
}

// UnknownKeys returns the file keys that name no koanf-tagged field of
// target. Environment variables are not checked: the prefix is shared with
// flags that are not configuration keys.
func (l *Loader) UnknownKeys(target any) []string {
	known := make(map[string]bool)
	collectKeys(reflect.TypeOf(target), "", known)
	var unknown []string
	for _, k := range l.FileKeys() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

func collectKeys(t reflect.Type, prefix string, into map[string]bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := range t.NumField() {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + tag
		into[key] = true
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, key+".", into)
		}
	}
}
