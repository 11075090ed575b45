//go:build android
// +build android

package main

// Android has no /etc/resolv.conf; this import patches the resolver at
// init time.
import _ "github.com/mtibben/androiddnsfix"
