// Command client runs a scripted demonstration session against the catalog
// server: log in, read the catalog, create, update and delete a funko, then
// log out. With -clients N it launches N concurrent sessions.
package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

func main() {
	addr := flag.String("addr", "localhost:3000", "server address")
	clients := flag.Int("clients", 1, "number of concurrent demo clients")
	username := flag.String("username", "pepe", "login username")
	password := flag.String("password", "pepe1234", "login password")
	flag.Parse()

	// Stagger client launches so a big -clients value does not stampede
	// the accept loop.
	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)

	var wg sync.WaitGroup
	for i := 1; i <= *clients; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			slog.Error("rate limiter interrupted", "error", err)
			os.Exit(1)
		}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := &client{num: n, log: slog.With("client", n)}
			if err := c.run(*addr, *username, *password); err != nil {
				c.log.Error("client failed", "error", err)
				os.Exit(1)
			}
		}(i)
	}
	wg.Wait()
}

type client struct {
	num  int
	log  *slog.Logger
	conn *tls.Conn
	r    *bufio.Reader
}

func (c *client) run(addr, username, password string) error {
	// The demo server uses a self-signed certificate.
	conn, err := tls.Dial("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()
	c.conn = conn
	c.r = bufio.NewReader(conn)

	token, err := c.login(username, password)
	if err != nil {
		return err
	}
	c.log.Info("logged in")

	if _, err := c.expect(model.NewRequest(model.RequestGetAll, "", token), model.StatusOK); err != nil {
		return err
	}

	funko := model.Funko{
		UUID:        uuid.New(),
		Name:        fmt.Sprintf("Demo Funko %d", c.num),
		Category:    model.CategoryMarvel,
		Price:       29.99,
		ReleaseDate: model.NewDate(2023, time.May, 4),
	}
	created, err := c.sendFunko(model.RequestCreate, funko, token)
	if err != nil {
		return err
	}
	c.log.Info("created funko", "id", created.ID)

	if _, err := c.expect(model.NewRequest(model.RequestGetByID, fmt.Sprint(created.ID), token), model.StatusOK); err != nil {
		return err
	}
	if _, err := c.expect(model.NewRequest(model.RequestGetByCategory, "marvel", token), model.StatusOK); err != nil {
		return err
	}
	if _, err := c.expect(model.NewRequest(model.RequestGetByYear, "2023", token), model.StatusOK); err != nil {
		return err
	}

	created.Price = 35.50
	updated, err := c.sendFunko(model.RequestUpdate, created, token)
	if err != nil {
		return err
	}
	c.log.Info("updated funko", "id", updated.ID, "price", updated.Price)

	if _, err := c.expect(model.NewRequest(model.RequestDelete, fmt.Sprint(created.ID), token), model.StatusOK); err != nil {
		return err
	}
	c.log.Info("deleted funko", "id", created.ID)

	// The funko is gone now; the lookup must fail.
	if _, err := c.expect(model.NewRequest(model.RequestGetByID, fmt.Sprint(created.ID), token), model.StatusError); err != nil {
		return err
	}

	if _, err := c.expect(model.NewRequest(model.RequestLogout, "", ""), model.StatusBye); err != nil {
		return err
	}
	c.log.Info("logged out")
	return nil
}

func (c *client) login(username, password string) (string, error) {
	payload, err := json.Marshal(model.Login{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	resp, err := c.expect(model.NewRequest(model.RequestLogin, string(payload), ""), model.StatusToken)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *client) sendFunko(t model.RequestType, f model.Funko, token string) (model.Funko, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return model.Funko{}, err
	}
	resp, err := c.expect(model.NewRequest(t, string(payload), token), model.StatusOK)
	if err != nil {
		return model.Funko{}, err
	}

	var out model.Funko
	if err := json.Unmarshal([]byte(resp.Content), &out); err != nil {
		return model.Funko{}, fmt.Errorf("decoding %s response: %w", t, err)
	}
	return out, nil
}

// expect sends one request and reads one response, failing if the status is
// not the expected one. Any unexpected status is fatal to the client.
func (c *client) expect(req model.Request, want model.Status) (model.Response, error) {
	if err := json.NewEncoder(c.conn).Encode(req); err != nil {
		return model.Response{}, fmt.Errorf("sending %s: %w", req.Type, err)
	}

	line, err := c.r.ReadString('\n')
	if err != nil {
		return model.Response{}, fmt.Errorf("reading %s response: %w", req.Type, err)
	}

	var resp model.Response
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return model.Response{}, fmt.Errorf("decoding %s response: %w", req.Type, err)
	}

	if resp.Status != want {
		return model.Response{}, fmt.Errorf("%s: unexpected status %s (%s)", req.Type, resp.Status, resp.Content)
	}
	return resp, nil
}
