package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/CoderPush/pulse-sub001/apps/api/echo"
	"github.com/CoderPush/pulse-sub001/core/user"
	testutil "github.com/CoderPush/pulse-sub001/tests"
)

func Test_userApi_login(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Jane Dilan", "jane.login@test.cd", "v3ryS3cr3t!", nil, true)
	inactive := testutil.CreateUser(t, usrRepo, "", "gone.login@test.cd", "v3ryS3cr3t!", nil, false)
	_ = usr

	tests := []httpTest{
		{
			name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: marchallObj(t, LoginRequest{Email: "who@test.cd", Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Email: "jane.login@test.cd", Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: marchallObj(t, LoginRequest{Email: inactive.Email, Password: "v3ryS3cr3t!"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "success", body: marchallObj(t, LoginRequest{Email: "Jane.Login@test.cd", Password: "v3ryS3cr3t!"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse: %v", err)
				}
				if resp.Token == "" {
					t.Error("login succeeded but no token returned")
				}
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Member Q", "", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin Q", "", "", user.AdminRoles, true)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, member), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "admin allowed", path: "/v1/users", token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detailAccess(t *testing.T) {
	owner := testutil.CreateUser(t, usrRepo, "Owner D", "", "", user.MemberRoles, true)
	other := testutil.CreateUser(t, usrRepo, "Other D", "", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin D", "", "", user.AdminRoles, true)

	tests := []httpTest{
		{name: "self can retrieve", path: "/v1/users/" + owner.ID, token: getToken(t, owner), wantCode: http.StatusOK},
		{
			name: "others cannot retrieve", path: "/v1/users/" + owner.ID, token: getToken(t, other),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "admin can retrieve", path: "/v1/users/" + owner.ID, token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Member R", "", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin R", "", "", user.AdminRoles, true)

	newUsr := user.NewUser{
		Name:            "Fresh Face",
		Email:           "fresh.face@test.cd",
		Password:        "v3ryS3cr3t!",
		PasswordConfirm: "v3ryS3cr3t!",
		Roles:           user.MemberRoles,
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", token: getToken(t, member), body: marchallObj(t, newUsr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "created", token: getToken(t, admin), body: marchallObj(t, newUsr), wantCode: http.StatusCreated},
		{
			name: "duplicate email rejected", token: getToken(t, admin), body: marchallObj(t, newUsr),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
