package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	tif "github.com/jedharris/text-game-sub000"
	"github.com/jedharris/text-game-sub000/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve <world-file-or-game-dir>",
	Short: "Serve the JSON protocol on a unix socket",
	Long: `serve exposes the engine to external clients as newline-delimited JSON
over a unix socket. Each line in is one protocol message; each line out is
one reply. All connections drive the same shared game.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		socket, _ := cmd.Flags().GetString("socket")
		logFile, _ := cmd.Flags().GetString("log-file")
		watch, _ := cmd.Flags().GetBool("watch")
		return runServe(args[0], socket, logFile, watch)
	},
}

func init() {
	serveCmd.Flags().String("socket", "", "unix socket path (default <world-dir>/tif.sock)")
	serveCmd.Flags().String("log-file", "", "request log file with rotation (default stderr)")
	serveCmd.Flags().Bool("watch", false, "reload the world file when it changes")
	rootCmd.AddCommand(serveCmd)
}

// server wraps a single shared engine behind a mutex. The engine is not
// concurrency-safe; every connection serialises through here.
type server struct {
	mu        sync.Mutex
	engine    *tif.Engine
	worldPath string
	logger    *log.Logger
}

func runServe(arg, socket, logFile string, watch bool) error {
	worldPath, _, err := resolveGame(arg)
	if err != nil {
		return err
	}
	engine, err := tif.Open(worldPath, tif.Options{})
	if err != nil {
		return err
	}

	if socket == "" {
		socket = config.GetString("serve.socket")
	}
	if socket == "" {
		socket = filepath.Join(filepath.Dir(worldPath), "tif.sock")
	}
	if logFile == "" {
		logFile = config.GetString("serve.log-file")
	}
	if !watch {
		watch = config.GetBool("serve.watch")
	}

	srv := &server{
		engine:    engine,
		worldPath: worldPath,
		logger:    newServeLogger(logFile),
	}

	if watch {
		stop, err := srv.watchWorld()
		if err != nil {
			return err
		}
		defer stop()
	}

	// A stale socket from a previous run would block the listen.
	if err := os.Remove(socket); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket: %w", err)
	}
	listener, err := net.Listen("unix", socket)
	if err != nil {
		return err
	}
	defer listener.Close()
	defer os.Remove(socket)

	srv.logger.Printf("serving %s on %s", worldPath, socket)
	fmt.Printf("Serving %s on %s\n", worldPath, socket)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go srv.serveConn(conn)
	}
}

func newServeLogger(path string) *log.Logger {
	var out io.Writer = os.Stderr
	if path != "" {
		out = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	return log.New(out, "", log.LstdFlags)
}

func (s *server) serveConn(conn net.Conn) {
	defer conn.Close()
	connID := uuid.New().String()[:8]
	s.logger.Printf("[%s] connected", connID)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		reqID := uuid.New().String()[:8]
		s.logger.Printf("[%s/%s] <- %s", connID, reqID, line)

		s.mu.Lock()
		reply := s.engine.HandleMessage(line)
		s.mu.Unlock()

		s.logger.Printf("[%s/%s] -> %s", connID, reqID, reply)
		if _, err := conn.Write(append(reply, '\n')); err != nil {
			s.logger.Printf("[%s] write failed: %v", connID, err)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Printf("[%s] read failed: %v", connID, err)
	}
	s.logger.Printf("[%s] disconnected", connID)
}

// watchWorld reloads the engine from disk when the world file changes.
// Editors typically write through a rename, so the watch covers the
// containing directory and filters on the file name.
func (s *server) watchWorld() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.worldPath)); err != nil {
		watcher.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.worldPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				s.reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Printf("watch error: %v", err)
			}
		}
	}()
	return func() { watcher.Close() }, nil
}

func (s *server) reload() {
	engine, err := tif.Open(s.worldPath, tif.Options{})
	if err != nil {
		s.logger.Printf("reload failed, keeping running world: %v", err)
		return
	}
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
	s.logger.Printf("reloaded %s", s.worldPath)
}
