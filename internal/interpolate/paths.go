package interpolate

// Namespaces for the data-directory path layers.
const (
	NamespaceLocalPath   = "local-path"
	NamespaceRuntimePath = "runtime-path"
	NamespaceVar         = "var"
)

// PathMap exposes data directories under namespace. dirs maps each source
// directory (relative to the service folder) to its destination relative
// path; resolve turns the destination into the path the consumer sees.
func PathMap(namespace string, dirs map[string]string, resolve func(dst string) string) Map {
	out := make(Map, len(dirs))
	for src, dst := range dirs {
		out[namespace+":"+src] = resolve(dst)
	}
	return out
}
