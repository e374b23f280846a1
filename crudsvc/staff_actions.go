package crudsvc

import (
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-hatchery/command"
	"github.com/goliatone/go-hatchery/crudguard"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

type staffProvisionPayload struct {
	Profile types.Profile `json:"profile"`
	FarmIDs []uuid.UUID   `json:"farm_ids"`
}

// StaffProvisionAction registers POST /staff/provision so admin panels can
// create pending profiles with farm grants and receive the claim link in one
// round trip.
func StaffProvisionAction(guard GuardAdapter, provision gocommand.Commander[command.StaffProvisionInput]) crud.Action[*types.Profile] {
	return crud.Action[*types.Profile]{
		Name:   "provision",
		Method: http.MethodPost,
		Target: crud.ActionTargetCollection,
		Path:   "/staff/provision",
		Handler: func(ctx crud.ActionContext[*types.Profile]) error {
			if provision == nil {
				return goerrors.New("staff provision command missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
			}
			var payload staffProvisionPayload
			if err := ctx.BodyParser(&payload); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid provision payload").WithCode(goerrors.CodeBadRequest)
			}
			res, err := guard.Enforce(crudguard.GuardInput{
				Context:   ctx,
				Operation: crud.OpCreate,
				Scope:     types.ScopeFilter{HatcheryID: payload.Profile.HatcheryID},
			})
			if err != nil {
				return err
			}
			result := command.StaffProvisionResult{}
			input := command.StaffProvisionInput{
				Profile: &payload.Profile,
				FarmIDs: payload.FarmIDs,
				Actor:   res.Actor,
				Scope:   res.Scope,
				Result:  &result,
			}
			if err := provision.Execute(ctx.UserContext(), input); err != nil {
				return err
			}
			return ctx.Status(http.StatusCreated).JSON(result)
		},
	}
}
