// Package util holds small helpers shared by configuration and providers.
package util
