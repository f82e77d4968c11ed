// Package testsupport holds fixtures shared by package tests: temp-dir
// backed configs, sample bundle trees and file writers.
package testsupport
