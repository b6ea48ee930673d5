// Package provider defines the translation provider interface and
// implementations.
package provider

import "github.com/ai-pulse/pulsetrans"

// Provider is the interface for external translation backends.
// This is an alias to the main package interface for convenience.
type Provider = pulsetrans.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = pulsetrans.TranslateRequest
