package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const folderPrompt = "Enter the folder path to scan: "

// promptFolder asks for the scan root on in when no argument was given.
func promptFolder(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, folderPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read folder: %w", err)
	}
	folder := strings.TrimSpace(line)
	if folder == "" {
		return "", errors.New("no folder given")
	}
	return folder, nil
}
