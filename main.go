package main

import (
	"errors"
	"os"

	"github.com/chihoangvnn/postpreview/cmd"
	"github.com/chihoangvnn/postpreview/internal/logutil"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrInvalidContent) {
			logutil.Errorf("%v", err)
		}
		os.Exit(1)
	}
}
