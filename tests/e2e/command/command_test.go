//go:build e2e

package command_test

import (
	"net/http"
	"testing"

	"cdk-distributor/internal/handler/dto/request"
	"cdk-distributor/internal/handler/dto/response"
	"cdk-distributor/tests/common/httptest"
	"cdk-distributor/tests/e2e"
	"cdk-distributor/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const commandsURL = "/api/commands"

type CommandSuite struct {
	e2e.SharedSuite
	tokens *helper.TokenHelper
	admin  string
}

func (s *CommandSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.tokens = helper.NewTokenHelper(s.Config.JWT)
	s.admin = s.tokens.LoginAdmin(s.T(), s.Router, e2e.AdminUsername, e2e.AdminPassword)
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) send(token, text string) []string {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, commandsURL, request.CommandRequest{Text: text}, token)
	var resp response.CommandResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	return resp.Messages
}

func (s *CommandSuite) TestChatFlow() {
	t := s.T()
	id := s.PoolID("chat")
	src := s.Codes.Serve("A", "B", "C")
	member := s.tokens.MemberToken(t, "frank")

	require.Equal(t, []string{"Created pool " + id + ", total: 3."},
		s.send(s.admin, "/cdk new "+id+" "+src+" false false false 1 Chat Pool"))

	require.Equal(t, []string{"Your CDK: A"}, s.send(member, "/claim "+id))
	require.Equal(t, []string{"You have reached the claim limit for this pool."}, s.send(member, "/cdk claim "+id))

	require.Equal(t, []string{"Pool " + id + " configuration updated."}, s.send(s.admin, "/cdk config "+id+" true 0"))
	require.Equal(t, []string{"Your CDK: B", "Your CDK: C"}, s.send(member, "/claim "+id+" 2"))
	require.Equal(t, []string{"All codes have been claimed."}, s.send(member, "/claim "+id))

	details := s.send(s.admin, "/cdk details "+id)
	require.Len(t, details, 1)
	require.Contains(t, details[0], "Name: Chat Pool")
	require.Contains(t, details[0], "Remaining: 0")
	require.Contains(t, details[0], "Allow duplicate: true")
}

func (s *CommandSuite) TestAdminGate() {
	t := s.T()
	refused := []string{"This command is restricted to admins in a private chat."}

	require.Equal(t, refused, s.send(s.tokens.MemberToken(t, "u1"), "/cdk details anything"))
	require.Equal(t, refused, s.send(s.tokens.AdminGroupToken(t, "boss"), "/cdk new P http://example.com/x"))
}

func (s *CommandSuite) TestFetchFailure() {
	t := s.T()
	require.Equal(t, []string{"Failed to fetch the code list, please check the URL."},
		s.send(s.admin, "/cdk new "+s.PoolID("nofetch")+" "+s.Codes.MissingURL()))
}
