package replica

// ClientInstance is a variable declaration that constructs a tracked store
// client. The detection is advisory: it feeds a pre-flight warning and never
// filters issues.
type ClientInstance struct {
	Name                string `json:"name" yaml:"name"` // declared identifier
	File                string `json:"file" yaml:"file"`
	Line                int    `json:"line" yaml:"line"`
	HasReplicaExtension bool   `json:"hasReplicaExtension" yaml:"hasReplicaExtension"`
}
