//go:build !debug
// +build !debug

package xraytrace

func DebugLog(format string, args ...interface{})     {}
func DebugLogOnce(format string, args ...interface{}) {}
