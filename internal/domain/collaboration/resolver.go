package collaboration

import (
	"context"
	"errors"
)

// Resolver answers "what may this actor do on this page". It is a pure
// read: no side effects, and it fails closed — a missing page, a missing
// actor or a storage miss all resolve to an empty permission set rather
// than an error, so callers must treat the empty verdict as deny.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) Resolve(ctx context.Context, actorID, pageID string) (Access, error) {
	denied := Access{ActorID: actorID, PageID: pageID, Permissions: PermissionSet{}}
	if actorID == "" || pageID == "" {
		return denied, nil
	}

	page, err := r.repo.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, ErrCollaborationNotFound) {
			return denied, nil
		}
		return denied, err
	}
	if page == nil {
		return denied, nil
	}

	if page.OwnerID == actorID {
		return Access{
			ActorID: actorID,
			PageID:  pageID,
			OwnerID: page.OwnerID,
			IsOwner: true,
			Permissions: PermissionSet{
				PermissionClients:      true,
				PermissionAppointments: true,
				PermissionFinancial:    true,
			},
		}, nil
	}

	collab, err := r.repo.Get(ctx, pageID, actorID)
	if err != nil {
		if errors.Is(err, ErrCollaborationNotFound) {
			return denied, nil
		}
		return denied, err
	}

	return Access{
		ActorID:     actorID,
		PageID:      pageID,
		OwnerID:     page.OwnerID,
		Role:        collab.Role,
		Permissions: RolePermissions(collab.Role),
	}, nil
}

// FinancialPages lists every page whose financial data the actor may view:
// pages they own plus pages where their role is lawyer or financial.
func (r *Resolver) FinancialPages(ctx context.Context, actorID string) ([]PageRef, error) {
	owned, err := r.repo.ListOwnedPages(ctx, actorID)
	if err != nil {
		return nil, err
	}

	shared, err := r.repo.ListPagesByCollaboratorRoles(ctx, actorID, []Role{RoleLawyer, RoleFinancial})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(owned))
	pages := make([]PageRef, 0, len(owned)+len(shared))
	for _, p := range owned {
		seen[p.ID] = struct{}{}
		pages = append(pages, p)
	}
	for _, p := range shared {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		pages = append(pages, p)
	}

	return pages, nil
}
