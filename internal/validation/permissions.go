// Package validation holds the single-call permission and actor checks done
// before the agent is allowed to act on a trigger.
package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// CheckWritePermission reports whether the user holds write or admin access.
func CheckWritePermission(ctx context.Context, client platform.Client, login string) (bool, error) {
	permission, err := client.GetCollaboratorPermission(ctx, login)
	if err != nil {
		return false, fmt.Errorf("failed to get permission level: %w", err)
	}
	return permission == "write" || permission == "admin", nil
}

// EnsureWritePermission fails unless the user holds write access. When the
// precise permission query is unavailable it falls back to the coarser
// collaborator-membership probe.
func EnsureWritePermission(ctx context.Context, client platform.Client, login string) error {
	hasWrite, err := CheckWritePermission(ctx, client, login)
	if err != nil {
		isCollab, collabErr := client.IsCollaborator(ctx, login)
		if collabErr != nil {
			return err
		}
		hasWrite = isCollab
	}
	if !hasWrite {
		return fmt.Errorf("user %s lacks write permission", login)
	}
	return nil
}

// IsHumanActor rejects bot accounts as trigger actors.
func IsHumanActor(ctx context.Context, client platform.Client, login string) (bool, error) {
	if strings.HasSuffix(login, "[bot]") {
		return false, nil
	}
	if _, err := client.GetUser(ctx, login); err != nil {
		return false, fmt.Errorf("failed to look up actor: %w", err)
	}
	return true, nil
}
