// Package staging manages the scratch directories used while packing and
// unpacking archives: acquisition with unique names, release, listing and
// removal of directories left behind by interrupted runs.
package staging
