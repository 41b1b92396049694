package cmd

import (
	"fmt"

	"github.com/cryptograss/stonemint/pkg/showminting"
)

// consoleWriter is where commands print their results, tests capture the
// output by replacing it.
var consoleWriter consoleWrapper = &stdoutWrapper{}

type (
	consoleWrapper interface {
		Println(a ...any)
		Print(a ...any)
	}

	stdoutWrapper struct{}
)

func (w *stdoutWrapper) Println(a ...any) {
	fmt.Println(a...)
}

func (w *stdoutWrapper) Print(a ...any) {
	fmt.Print(a...)
}

// printRequest prints the contract call arguments, secrets are shown only as
// their hashes.
func printRequest(req *showminting.ShowAvailabilityRequest) {
	consoleWriter.Println("Artist ID:", req.ArtistID)
	consoleWriter.Println("Block height:", req.BlockHeight)
	consoleWriter.Println("Number of sets:", req.NumberOfSets)
	consoleWriter.Println("Shapes:", req.Shapes)
	consoleWriter.Println(fmt.Sprintf("Stone price: %s ETH (%s wei)", showminting.WeiToEther(req.StonePriceWei), req.StonePriceWei))
	consoleWriter.Println("Secret hashes:")
	for _, h := range req.SecretHashes {
		consoleWriter.Println(h.Hex())
	}
}

func printTransaction(h *showminting.TransactionHandle) {
	consoleWriter.Println("Transaction hash:", h.TxHash.Hex())
	consoleWriter.Println("Sender:", h.From.Hex())
	consoleWriter.Println("Explorer:", h.ExplorerURL)
}
