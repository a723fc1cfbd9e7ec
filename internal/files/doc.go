// Package files locates catalog sources on disk.
//
// Discovery lists the CSV and workbook files of a directory and resolves a
// configured input location to one file: a file path is used as is, a
// directory resolves to its most recently modified catalog file. Resolution
// failures are data source errors.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	input, err := discovery.ResolveInput("data")
package files
