package main

import (
	"fmt"
	"os"

	"github.com/KarpelesLab/littlefs"
)

const usage = `lfs - littlefs image CLI tool

Usage:
  lfs format <image> <block_size> <block_count>   Create a fresh littlefs image
  lfs ls <image> <block_size> [<path>]             List a directory's contents
  lfs cat <image> <block_size> <file>              Display the contents of a file
  lfs write <image> <block_size> <file>            Write stdin to a file
  lfs mkdir <image> <block_size> <dir>             Create a directory
  lfs rm <image> <block_size> <path>               Remove a file or directory
  lfs info <image> <block_size>                    Display superblock information
  lfs help                                         Show this help message
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "help" {
		fmt.Print(usage)
		return
	}

	if err := run(cmd, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	switch cmd {
	case "format":
		if len(args) < 3 {
			return fmt.Errorf("usage: lfs format <image> <block_size> <block_count>")
		}
		blockSize, blockCount, err := parseSizes(args[1], args[2])
		if err != nil {
			return err
		}
		dev, err := littlefs.OpenFileDevice(args[0], blockSize, blockCount)
		if err != nil {
			return err
		}
		defer dev.Close()
		_, err = littlefs.Format(dev)
		return err

	case "ls":
		if len(args) < 2 {
			return fmt.Errorf("usage: lfs ls <image> <block_size> [<path>]")
		}
		h, dev, err := open(args[0], args[1])
		if err != nil {
			return err
		}
		defer dev.Close()
		path := "/"
		if len(args) > 2 {
			path = args[2]
		}
		names, err := h.List(path)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil

	case "cat":
		if len(args) < 3 {
			return fmt.Errorf("usage: lfs cat <image> <block_size> <file>")
		}
		h, dev, err := open(args[0], args[1])
		if err != nil {
			return err
		}
		defer dev.Close()
		data, err := h.Get(args[2])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err

	case "write":
		if len(args) < 3 {
			return fmt.Errorf("usage: lfs write <image> <block_size> <file>")
		}
		h, dev, err := open(args[0], args[1])
		if err != nil {
			return err
		}
		defer dev.Close()
		data, err := readAllStdin()
		if err != nil {
			return err
		}
		return h.Set(args[2], data)

	case "mkdir":
		if len(args) < 3 {
			return fmt.Errorf("usage: lfs mkdir <image> <block_size> <dir>")
		}
		h, dev, err := open(args[0], args[1])
		if err != nil {
			return err
		}
		defer dev.Close()
		return h.Mkdir(args[2])

	case "rm":
		if len(args) < 3 {
			return fmt.Errorf("usage: lfs rm <image> <block_size> <path>")
		}
		h, dev, err := open(args[0], args[1])
		if err != nil {
			return err
		}
		defer dev.Close()
		return h.Delete(args[2])

	case "info":
		if len(args) < 2 {
			return fmt.Errorf("usage: lfs info <image> <block_size>")
		}
		h, dev, err := open(args[0], args[1])
		if err != nil {
			return err
		}
		defer dev.Close()
		return showInfo(h)

	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseSizes(blockSizeArg, blockCountArg string) (int, uint32, error) {
	var blockSize int
	var blockCount uint32
	if _, err := fmt.Sscanf(blockSizeArg, "%d", &blockSize); err != nil {
		return 0, 0, fmt.Errorf("invalid block size %q: %w", blockSizeArg, err)
	}
	if _, err := fmt.Sscanf(blockCountArg, "%d", &blockCount); err != nil {
		return 0, 0, fmt.Errorf("invalid block count %q: %w", blockCountArg, err)
	}
	return blockSize, blockCount, nil
}

func open(imagePath, blockSizeArg string) (*littlefs.Handle, *littlefs.FileDevice, error) {
	var blockSize int
	if _, err := fmt.Sscanf(blockSizeArg, "%d", &blockSize); err != nil {
		return nil, nil, fmt.Errorf("invalid block size %q: %w", blockSizeArg, err)
	}
	info, err := os.Stat(imagePath)
	if err != nil {
		return nil, nil, err
	}
	blockCount := uint32(info.Size() / int64(blockSize))
	dev, err := littlefs.OpenFileDevice(imagePath, blockSize, blockCount)
	if err != nil {
		return nil, nil, err
	}
	h, err := littlefs.Connect(dev)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return h, dev, nil
}

func readAllStdin() ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}

func showInfo(h *littlefs.Handle) error {
	fmt.Println("littlefs image information")
	fmt.Println("===========================")
	fmt.Printf("Version:       %d.%d\n", h.Super().VersionMajor, h.Super().VersionMinor)
	fmt.Printf("Block size:    %d bytes\n", h.Super().BlockSize)
	fmt.Printf("Block count:   %d\n", h.Super().BlockCount)
	fmt.Printf("Name max:      %d\n", h.Super().NameLengthMax)
	fmt.Printf("File max:      %d bytes\n", h.Super().FileSizeMax)
	return nil
}
