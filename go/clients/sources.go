package clients

import "fmt"

// ExternalSource identifies where a seeded entity came from. It prefixes
// external ids so the same player imported from two feeds never collides.
type ExternalSource string

const (
	ExternalSourceNHL    ExternalSource = "nhl"
	ExternalSourceManual ExternalSource = "manual"
)

// ExternalID builds the stable external identifier for an upstream entity.
func ExternalID(source ExternalSource, id any) string {
	return fmt.Sprintf("%s:%v", source, id)
}
