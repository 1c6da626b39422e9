//go:build !windows

package main

var dpiMode = "n/a"
