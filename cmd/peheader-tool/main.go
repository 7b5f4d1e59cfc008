// Program peheader-tool prints the MS-DOS header, MS-DOS stub and NT headers
// of a Windows PE image.
//
// The headers are decoded from a read-only mapping of the file; nothing is
// loaded or executed. Every field is printed in fixed-width hexadecimal, or
// the whole header chain is emitted as JSON or YAML with --output.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
