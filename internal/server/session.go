package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/popcatalog/popcatalog-go/internal/model"
	"github.com/popcatalog/popcatalog-go/internal/service"
)

// session runs the protocol state machine for one connection: read exactly
// one request line, fully write exactly one response, repeat. Responses are
// produced synchronously before the next read so they can never be written
// out of request order.
type session struct {
	conn   net.Conn
	auth   *service.AuthService
	funkos *service.FunkoService
	log    *slog.Logger
}

func newSession(conn net.Conn, clientNum int64, auth *service.AuthService, funkos *service.FunkoService) *session {
	return &session{
		conn:   conn,
		auth:   auth,
		funkos: funkos,
		log:    slog.With("client", clientNum),
	}
}

func (s *session) run() {
	defer s.conn.Close()
	s.log.Debug("client connected", "remote", s.conn.RemoteAddr())

	reader := bufio.NewReader(s.conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			s.log.Debug("client disconnected", "error", err)
			return
		}

		var req model.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.send(model.NewResponse(model.StatusError, "malformed request: "+err.Error()))
			continue
		}

		if closing := s.handle(context.Background(), req); closing {
			return
		}
	}
}

// handle dispatches one request and writes its response. It reports whether
// the session should close. Every recoverable failure becomes an ERROR
// response; the connection stays open.
func (s *session) handle(ctx context.Context, req model.Request) bool {
	s.log.Debug("handling request", "type", req.Type)

	switch req.Type {
	case model.RequestLogin:
		s.processLogin(req)
	case model.RequestLogout:
		s.send(model.NewResponse(model.StatusBye, "goodbye"))
		return true
	case model.RequestGetAll, model.RequestGetByID, model.RequestGetByCategory, model.RequestGetByYear,
		model.RequestCreate, model.RequestUpdate, model.RequestDelete:
		s.processCommand(ctx, req)
	default:
		s.send(model.NewResponse(model.StatusError, fmt.Sprintf("not implemented request %q", req.Type)))
	}
	return false
}

func (s *session) processLogin(req model.Request) {
	var login model.Login
	if err := json.Unmarshal([]byte(req.Content), &login); err != nil {
		s.send(model.NewResponse(model.StatusError, "malformed login payload"))
		return
	}

	token, err := s.auth.Login(login.Username, login.Password)
	if err != nil {
		s.log.Warn("login failed", "username", login.Username)
		s.send(model.NewResponse(model.StatusError, err.Error()))
		return
	}
	s.send(model.NewResponse(model.StatusToken, token))
}

// processCommand enforces authentication and authorization, then runs the
// catalog operation.
func (s *session) processCommand(ctx context.Context, req model.Request) {
	user, err := s.auth.Authenticate(req.Token)
	if err != nil {
		s.send(model.NewResponse(model.StatusError, err.Error()))
		return
	}

	switch req.Type {
	case model.RequestCreate, model.RequestUpdate, model.RequestDelete:
		if user.Role != model.RoleAdmin {
			s.log.Warn("rejected mutating command", "user", user.Username, "type", req.Type)
			s.send(model.NewResponse(model.StatusError, "insufficient permissions"))
			return
		}
	}

	switch req.Type {
	case model.RequestGetAll:
		funkos, err := s.funkos.FindAll(ctx)
		s.sendList(funkos, err)
	case model.RequestGetByID:
		id, err := strconv.Atoi(req.Content)
		if err != nil {
			s.send(model.NewResponse(model.StatusError, "invalid id: "+req.Content))
			return
		}
		f, err := s.funkos.FindByID(ctx, id)
		s.sendFunko(f, err)
	case model.RequestGetByCategory:
		funkos, err := s.funkos.FindByCategory(ctx, req.Content)
		s.sendList(funkos, err)
	case model.RequestGetByYear:
		year, err := strconv.Atoi(req.Content)
		if err != nil {
			s.send(model.NewResponse(model.StatusError, "invalid year: "+req.Content))
			return
		}
		funkos, err := s.funkos.FindByYear(ctx, year)
		s.sendList(funkos, err)
	case model.RequestCreate:
		f, err := s.decodeFunko(req.Content)
		if err != nil {
			return
		}
		created, err := s.funkos.Create(ctx, f)
		s.sendFunko(created, err)
	case model.RequestUpdate:
		f, err := s.decodeFunko(req.Content)
		if err != nil {
			return
		}
		updated, err := s.funkos.Update(ctx, f)
		s.sendFunko(updated, err)
	case model.RequestDelete:
		id, err := strconv.Atoi(req.Content)
		if err != nil {
			s.send(model.NewResponse(model.StatusError, "invalid id: "+req.Content))
			return
		}
		deleted, err := s.funkos.Delete(ctx, id)
		s.sendFunko(deleted, err)
	}
}

// decodeFunko parses a funko payload, answering ERROR itself on failure.
func (s *session) decodeFunko(content string) (model.Funko, error) {
	var f model.Funko
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		s.send(model.NewResponse(model.StatusError, "malformed funko payload: "+err.Error()))
		return model.Funko{}, err
	}
	return f, nil
}

func (s *session) sendFunko(f model.Funko, err error) {
	if err != nil {
		s.send(model.NewResponse(model.StatusError, err.Error()))
		return
	}
	body, err := json.Marshal(f)
	if err != nil {
		s.send(model.NewResponse(model.StatusError, err.Error()))
		return
	}
	s.send(model.NewResponse(model.StatusOK, string(body)))
}

func (s *session) sendList(funkos []model.Funko, err error) {
	if err != nil {
		s.send(model.NewResponse(model.StatusError, err.Error()))
		return
	}
	if funkos == nil {
		funkos = []model.Funko{}
	}
	body, err := json.Marshal(funkos)
	if err != nil {
		s.send(model.NewResponse(model.StatusError, err.Error()))
		return
	}
	s.send(model.NewResponse(model.StatusOK, string(body)))
}

// send writes one response line. Encoding appends the terminating newline.
func (s *session) send(resp model.Response) {
	if err := json.NewEncoder(s.conn).Encode(resp); err != nil {
		s.log.Error("writing response", "error", err)
	}
}
