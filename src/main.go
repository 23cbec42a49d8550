package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jinjor/additive-audio/src/audio"
	"golang.org/x/sync/errgroup"
)

const sockFileName = "/tmp/additive-audio.sock"

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := audio.NewAudio()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer a.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return a.Start(ctx)
		})
		g.Go(func() error {
			return receiveCommands(ctx, conn, a.CommandCh)
		})
		g.Go(func() error {
			return receiveMidi(ctx, a)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, a)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func withIPCConnection(ctx context.Context, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFileName)
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			return err
		}
		commandCh <- command
		log.Printf("received: %s\n", string(line))
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	items := strings.Split(line, " ")
	for i, item := range items {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		items[i] = escaped
	}
	return items, nil
}

func receiveMidi(ctx context.Context, a *audio.Audio) error {
	for data := range audio.ListenToMidiIn(ctx) {
		a.AddMidiEvent(data)
	}
	log.Println("receiveMidi() ended.")
	return nil
}

func sendReports(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			if a.Changes.Has("data") {
				a.Changes.Delete("data")
				if err := sendLine(conn, "data "+url.QueryEscape(string(a.ToJSON()))); err != nil {
					return err
				}
			}
			result := a.GetFFT()
			s := "fft"
			for _, value := range result {
				s += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			if err := sendLine(conn, s); err != nil {
				return err
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}

func sendLine(conn net.Conn, s string) error {
	_, err := conn.Write([]byte(s + "\n"))
	return err
}
