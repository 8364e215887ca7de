// Package types implements the functions, types, and interfaces for the module.
package types

// Global constants for the application.
const (
	Application = "enum2java"
	Description = "Generate Java @IntDef files from annotated C++ enums"
	WebSite     = "https://github.com/nativebuild/enum2java"
	UI          = "enum2java"
)
