// Package catalog resolves product names to products. Every adapter reports
// failures of any kind as a miss so the cart never sees an error from it.
package catalog

const (
	SourceHTTP   = "http"
	SourceStatic = "static"
	SourceDB     = "db"
)
