package main

import (
	"fmt"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/pkg/duration"
	"github.com/spf13/cobra"
)

func newClaimCmd(confPath *string) *cobra.Command {
	claimCmd := &cobra.Command{
		Use:   "claim",
		Short: "Issue, inspect and revoke account claims",
	}
	claimCmd.AddCommand(
		newClaimIssueCmd(confPath),
		newClaimProvisionCmd(confPath),
		newClaimValidateCmd(confPath),
		newClaimListCmd(confPath),
		newClaimRevokeCmd(confPath),
		newClaimSweepCmd(confPath),
	)
	return claimCmd
}

func newClaimIssueCmd(confPath *string) *cobra.Command {
	var req claim.IssueRequest
	var ttl string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a claim for an existing account and send the invitation",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if req.TTL, err = parseTTL(ttl); err != nil {
				return err
			}
			rt, err := openRuntime(*confPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			issued, err := rt.claims.Issue(cmd.Context(), req)
			if err != nil {
				return err
			}
			warnDelivery(cmd, issued)
			return printJSON(cmd.OutOrStdout(), issued)
		},
	}
	cmd.Flags().StringVar(&req.SubjectIdentity, "subject", "", "identity the claim grants access to")
	cmd.Flags().StringVar(&req.IssuerIdentity, "issuer", "", "issuing supporter identity, empty for self-serve")
	cmd.Flags().StringVar(&req.IssuerDisplayName, "issuer-name", "", "issuer name shown in the invitation")
	cmd.Flags().StringVar(&req.InviteeContact, "email", "", "invitee email address")
	cmd.Flags().StringVar(&req.DisplayName, "display-name", "", "name shown during the claim flow")
	cmd.Flags().StringVar(&req.Message, "message", "", "message forwarded with the invitation")
	cmd.Flags().StringVar(&ttl, "ttl", "", "claim lifetime, e.g. 7d or 36h")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newClaimProvisionCmd(confPath *string) *cobra.Command {
	var req claim.ProvisionRequest
	var ttl string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a placeholder account for an individual and invite them to claim it",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if req.TTL, err = parseTTL(ttl); err != nil {
				return err
			}
			rt, err := openRuntime(*confPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			out, err := rt.claims.Provision(cmd.Context(), req)
			if err != nil {
				return err
			}
			warnDelivery(cmd, out.Issued)
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&req.IssuerIdentity, "issuer", "", "provisioning supporter identity")
	cmd.Flags().StringVar(&req.IssuerDisplayName, "issuer-name", "", "issuer name shown in the invitation")
	cmd.Flags().StringVar(&req.Email, "email", "", "individual's email address")
	cmd.Flags().StringVar(&req.DisplayName, "display-name", "", "individual's display name")
	cmd.Flags().StringVar(&req.Role, "role", "", "supporter role: parent, coach, provider or other")
	cmd.Flags().StringVar(&req.Permission, "permission", "", "supporter tier: viewer, editor or admin")
	cmd.Flags().StringVar(&req.Message, "message", "", "message forwarded with the invitation")
	cmd.Flags().StringVar(&ttl, "ttl", "", "claim lifetime, e.g. 7d or 36h")
	_ = cmd.MarkFlagRequired("issuer")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("display-name")
	return cmd
}

func newClaimValidateCmd(confPath *string) *cobra.Command {
	var token, email string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether a claim token can still be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*confPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			view, err := rt.claims.Validate(cmd.Context(), token, email)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "claim link token")
	cmd.Flags().StringVar(&email, "email", "", "invitee email to match, optional")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newClaimListCmd(confPath *string) *cobra.Command {
	var subject, actor string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the claims of an account, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*confPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			if actor == "" {
				actor = subject
			}
			views, err := rt.claims.List(cmd.Context(), subject, actor)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "account identity")
	cmd.Flags().StringVar(&actor, "actor", "", "identity listing the claims, defaults to the subject")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newClaimRevokeCmd(confPath *string) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "revoke <claim-id>",
		Short: "Revoke a pending claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*confPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			view, err := rt.claims.Revoke(cmd.Context(), args[0], actor)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "issuer or admin supporter revoking the claim")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func newClaimSweepCmd(confPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark every overdue pending claim as expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*confPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.claims.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d claim(s) expired\n", n)
			return nil
		},
	}
}

func warnDelivery(cmd *cobra.Command, issued *claim.Issued) {
	if issued != nil && issued.DeliveryError != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: invitation not delivered: %v\n", issued.DeliveryError)
	}
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --ttl: %w", err)
	}
	return d, nil
}
