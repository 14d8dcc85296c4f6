package executor

import (
	"log"
	"os"
)

// Fatal reports an implementation limit — something spec.md §7 requires
// never be silently masked, such as an access to an unimplemented CSR —
// and aborts the process. It is deliberately not a typed error a caller
// could catch and swallow (original_source's model_helper.h takes the
// same stance: unimpl_csr_read/unimpl_csr_write abort rather than return).
func Fatal(format string, args ...interface{}) {
	log.Printf("rv32core: fatal: "+format, args...)
	os.Exit(1)
}
