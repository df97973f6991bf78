// Command a11ymon audits storefront accessibility across markets.
package main

import (
	"fmt"
	"os"

	"github.com/pagewatch/a11ymon/cmd"
	"github.com/pagewatch/a11ymon/internal/resultstore"
)

func main() {
	cmd.SetStoreManager(resultstore.Manager)
	err := cmd.Execute()
	resultstore.CloseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
