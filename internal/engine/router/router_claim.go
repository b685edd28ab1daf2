// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/pkg/duration"
	"github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/http/jwt"
	"github.com/lunabeam/lunabeam/pkg/http/middleware"
	"github.com/lunabeam/lunabeam/pkg/log"
)

func (rt *Router) claimRouter(r fiber.Router, auth fiber.Handler) {
	claimGroup := r.Group("/claims")
	{
		// public, the token is the credential
		claimGroup.Get("/validate", rt.validateClaim)
		claimGroup.Post("/finalize", rt.finalizeClaim)

		claimGroup.Post("/provision", auth, rt.provisionIndividual)
		claimGroup.Post("/", auth, rt.issueClaim)
		claimGroup.Get("/subject/:identityId", auth, rt.listClaims)
		claimGroup.Post("/:claimId/revoke", auth, rt.revokeClaim)
		claimGroup.Post("/:claimId/resend", auth, rt.resendClaim)
	}
}

type finalizeReq struct {
	Token    string `json:"token"`
	Passcode string `json:"passcode"`
	Password string `json:"password"`
}

type finalizeRep struct {
	*claim.Finalized
	AccessToken string    `json:"accessToken"`
	ExpireAt    time.Time `json:"expireAt"`
}

type issueReq struct {
	SubjectIdentity   string `json:"subjectIdentity"`
	Email             string `json:"email"`
	DisplayName       string `json:"displayName"`
	IssuerDisplayName string `json:"issuerDisplayName"`
	Message           string `json:"message"`
	TTL               string `json:"ttl"`
}

type provisionReq struct {
	Email             string `json:"email"`
	DisplayName       string `json:"displayName"`
	IssuerDisplayName string `json:"issuerDisplayName"`
	Role              string `json:"role"`
	Permission        string `json:"permission"`
	Message           string `json:"message"`
	TTL               string `json:"ttl"`
}

type issuedRep struct {
	*claim.Issued
	DeliveryError string `json:"deliveryError,omitempty"`
}

type provisionedRep struct {
	IdentityId string `json:"identityId"`
	issuedRep
}

func (rt *Router) validateClaim(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return http.WithRepErrMsg(c, http.ClaimRequestInvalid.Code, "token is required", c.Path())
	}

	view, err := rt.Claims.Validate(c.UserContext(), token, c.Query("email"))
	if err != nil {
		return claimError(c, err)
	}
	c.Locals(middleware.DETAIL, view)
	return nil
}

func (rt *Router) finalizeClaim(c *fiber.Ctx) error {
	var req finalizeReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErr(c, http.RequestParameterParsingFailed)
	}
	if req.Token == "" || req.Passcode == "" {
		return http.WithRepErrMsg(c, http.ClaimRequestInvalid.Code, "token and passcode are required", c.Path())
	}

	out, err := rt.Claims.Finalize(c.UserContext(), claim.FinalizeRequest{
		Token:      req.Token,
		Passcode:   req.Passcode,
		Credential: req.Password,
	})
	if err != nil {
		return claimError(c, err)
	}

	// the account is already claimed at this point, a signing failure only
	// costs the caller an extra sign-in
	now := rt.now()
	rep := &finalizeRep{Finalized: out, ExpireAt: now.Add(rt.Http.Auth.AccessExpire)}
	rep.AccessToken, err = jwt.GenToken(out.IdentityId, rt.Http.Auth.Issuer, []byte(rt.Http.Auth.SecretKey), rt.Http.Auth.AccessExpire, now)
	if err != nil {
		log.WithContext(c.UserContext()).Errorw("sign access token failed", "identity", out.IdentityId, "error", err)
		rep.ExpireAt = time.Time{}
	}
	c.Locals(middleware.DETAIL, rep)
	return nil
}

func (rt *Router) issueClaim(c *fiber.Ctx) error {
	var req issueReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErr(c, http.RequestParameterParsingFailed)
	}
	ttl, err := parseTTL(req.TTL)
	if err != nil {
		return http.WithRepErrMsg(c, http.ClaimRequestInvalid.Code, err.Error(), c.Path())
	}

	issuer := middleware.CurrentIdentity(c)
	subject := req.SubjectIdentity
	if subject == "" {
		subject = issuer
	}
	issued, err := rt.Claims.Issue(c.UserContext(), claim.IssueRequest{
		SubjectIdentity:   subject,
		IssuerIdentity:    issuer,
		IssuerDisplayName: req.IssuerDisplayName,
		InviteeContact:    req.Email,
		DisplayName:       req.DisplayName,
		Message:           req.Message,
		TTL:               ttl,
	})
	if err != nil {
		return claimError(c, err)
	}
	c.Locals(middleware.DETAIL, toIssuedRep(issued))
	return nil
}

func (rt *Router) provisionIndividual(c *fiber.Ctx) error {
	var req provisionReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErr(c, http.RequestParameterParsingFailed)
	}
	ttl, err := parseTTL(req.TTL)
	if err != nil {
		return http.WithRepErrMsg(c, http.ClaimRequestInvalid.Code, err.Error(), c.Path())
	}

	out, err := rt.Claims.Provision(c.UserContext(), claim.ProvisionRequest{
		IssuerIdentity:    middleware.CurrentIdentity(c),
		IssuerDisplayName: req.IssuerDisplayName,
		Email:             req.Email,
		DisplayName:       req.DisplayName,
		Role:              strings.ToLower(req.Role),
		Permission:        strings.ToLower(req.Permission),
		Message:           req.Message,
		TTL:               ttl,
	})
	if err != nil {
		return claimError(c, err)
	}
	c.Locals(middleware.DETAIL, &provisionedRep{
		IdentityId: out.IdentityId,
		issuedRep:  *toIssuedRep(out.Issued),
	})
	return nil
}

func (rt *Router) listClaims(c *fiber.Ctx) error {
	views, err := rt.Claims.List(c.UserContext(), c.Params("identityId"), middleware.CurrentIdentity(c))
	if err != nil {
		return claimError(c, err)
	}
	if views == nil {
		views = []claim.View{}
	}
	c.Locals(middleware.DETAIL, views)
	return nil
}

func (rt *Router) revokeClaim(c *fiber.Ctx) error {
	view, err := rt.Claims.Revoke(c.UserContext(), c.Params("claimId"), middleware.CurrentIdentity(c))
	if err != nil {
		return claimError(c, err)
	}
	c.Locals(middleware.DETAIL, view)
	return nil
}

func (rt *Router) resendClaim(c *fiber.Ctx) error {
	issued, err := rt.Claims.Resend(c.UserContext(), c.Params("claimId"), middleware.CurrentIdentity(c))
	if err != nil {
		return claimError(c, err)
	}
	c.Locals(middleware.DETAIL, toIssuedRep(issued))
	return nil
}

func toIssuedRep(issued *claim.Issued) *issuedRep {
	rep := &issuedRep{Issued: issued}
	if issued.DeliveryError != nil {
		rep.DeliveryError = http.DeliveryFailed.Msg
	}
	return rep
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return duration.Parse(s)
}

// claimError answers a service error with its response code. Messages of
// caller mistakes are passed through; infrastructure causes are only logged.
func claimError(c *fiber.Ctx, err error) error {
	rep := responseOf(err)
	msg := rep.Msg

	switch claim.CodeOf(err) {
	case claim.CodeValidation, claim.CodeCredentialPolicy:
		var ce *claim.Error
		if errors.As(err, &ce) && ce.Message != "" {
			msg = ce.Message
		}
		log.WithContext(c.UserContext()).Debugw("claim request rejected", "path", c.Path(), "error", err)
	case claim.CodePersistence, claim.CodeDelivery, "":
		log.WithContext(c.UserContext()).Errorw("claim request failed", "path", c.Path(), "error", err)
	default:
		log.WithContext(c.UserContext()).Infow("claim request refused", "path", c.Path(), "error", err)
	}
	return http.WithRepErrMsg(c, rep.Code, msg, c.Path())
}

func responseOf(err error) *http.Response {
	code := claim.CodeOf(err)
	if code == claim.CodeInvalidClaim {
		code = claim.ReasonOf(err)
	}
	switch code {
	case claim.CodeValidation:
		return http.ClaimRequestInvalid
	case claim.CodeNotFound:
		return http.ClaimNotFound
	case claim.CodeExpired:
		return http.ClaimExpired
	case claim.CodeAlreadyUsed:
		return http.ClaimAlreadyUsed
	case claim.CodeRevoked:
		return http.ClaimRevoked
	case claim.CodePasscodeMismatch:
		return http.ClaimPasscodeInvalid
	case claim.CodeTooManyAttempts:
		return http.ClaimTooManyAttempts
	case claim.CodeCredentialPolicy:
		return http.CredentialRejected
	case claim.CodeDuplicateIdentity:
		return http.DuplicateClaim
	case claim.CodeDelivery:
		return http.DeliveryFailed
	case claim.CodeForbidden:
		return http.Forbidden
	case claim.CodePersistence:
		return http.PersistenceFailed
	default:
		return http.InternalError
	}
}
