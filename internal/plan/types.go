package plan

// Plan is the declarative build description handed to the host bundler. Field
// names follow the bundler's configuration schema.
type Plan struct {
	Mode          string            `json:"mode" yaml:"mode"`
	Entry         map[string]string `json:"entry" yaml:"entry"`
	Output        Output            `json:"output" yaml:"output"`
	Resolve       Resolve           `json:"resolve" yaml:"resolve"`
	ResolveLoader Resolve           `json:"resolveLoader" yaml:"resolveLoader"`
	Module        Module            `json:"module" yaml:"module"`
	Optimization  Optimization      `json:"optimization" yaml:"optimization"`
	Devtool       string            `json:"devtool,omitempty" yaml:"devtool,omitempty"`
	DevServer     *DevServer        `json:"devServer,omitempty" yaml:"devServer,omitempty"`
	Plugins       []Plugin          `json:"plugins" yaml:"plugins"`
	Locale        string            `json:"locale,omitempty" yaml:"locale,omitempty"`
}

type Output struct {
	Path          string `json:"path" yaml:"path"`
	PublicPath    string `json:"publicPath" yaml:"publicPath"`
	Filename      string `json:"filename" yaml:"filename"`
	ChunkFilename string `json:"chunkFilename" yaml:"chunkFilename"`
}

type Resolve struct {
	Alias map[string]string `json:"alias" yaml:"alias"`
}

type Module struct {
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Rule category names, in the order rules are emitted.
const (
	CategoryStyles  = "styles"
	CategoryScripts = "scripts"
	CategoryText    = "text"
	CategoryAssets  = "assets"
)

// Rule applies an ordered loader chain to files matching Test. Patterns are
// regular expressions without delimiters.
type Rule struct {
	Category string   `json:"category" yaml:"category"`
	Test     string   `json:"test" yaml:"test"`
	Exclude  string   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Use      []Loader `json:"use" yaml:"use"`
}

type Loader struct {
	Loader  string         `json:"loader" yaml:"loader"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

type Optimization struct {
	Minimize    bool         `json:"minimize" yaml:"minimize"`
	Minimizer   []string     `json:"minimizer,omitempty" yaml:"minimizer,omitempty"`
	SplitChunks *SplitChunks `json:"splitChunks,omitempty" yaml:"splitChunks,omitempty"`
}

type SplitChunks struct {
	Chunks      string                `json:"chunks" yaml:"chunks"`
	CacheGroups map[string]CacheGroup `json:"cacheGroups" yaml:"cacheGroups"`
}

type CacheGroup struct {
	Test    string `json:"test" yaml:"test"`
	Name    string `json:"name" yaml:"name"`
	Chunks  string `json:"chunks" yaml:"chunks"`
	Enforce bool   `json:"enforce" yaml:"enforce"`
}

type DevServer struct {
	Port               int    `json:"port" yaml:"port"`
	Host               string `json:"host" yaml:"host"`
	Static             string `json:"static" yaml:"static"`
	Compress           bool   `json:"compress" yaml:"compress"`
	HistoryAPIFallback bool   `json:"historyApiFallback" yaml:"historyApiFallback"`
	Hot                bool   `json:"hot" yaml:"hot"`
}

// Plugin is a build-lifecycle plugin reference.
type Plugin struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Plugin looks up the first plugin with the given name.
func (p Plan) Plugin(name string) (Plugin, bool) {
	for _, pl := range p.Plugins {
		if pl.Name == name {
			return pl, true
		}
	}
	return Plugin{}, false
}

// Rules returns the rules of the given category in order.
func (p Plan) Rules(category string) []Rule {
	var rules []Rule
	for _, r := range p.Module.Rules {
		if r.Category == category {
			rules = append(rules, r)
		}
	}
	return rules
}
