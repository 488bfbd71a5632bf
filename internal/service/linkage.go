package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"noise-sentinel/internal/model"
)

// LinkageGate enforces the one-to-one chain report -> challan -> FIR -> case. Creation
// services call the Check methods inside their transaction right before the insert; the
// unique link columns reject whatever slips past a concurrent check.
type LinkageGate struct {
	challans ChallanStore
	firs     FirStore
	cases    CaseStore
}

func NewLinkageGate(challans ChallanStore, firs FirStore, cases CaseStore) *LinkageGate {
	return &LinkageGate{challans: challans, firs: firs, cases: cases}
}

// CanLinkChallanToReport reports whether no challan references the emission report yet.
func (g *LinkageGate) CanLinkChallanToReport(ctx context.Context, reportID uuid.UUID) (bool, error) {
	return gateOutcome(g.CheckChallanToReport(ctx, reportID))
}

// CanLinkFirToChallan reports whether the challan exists, its violation is cognizable and
// no FIR was filed from it yet.
func (g *LinkageGate) CanLinkFirToChallan(ctx context.Context, challanID uuid.UUID) (bool, error) {
	_, err := g.CheckFirToChallan(ctx, challanID)
	return gateOutcome(err)
}

// CanLinkCaseToFir reports whether no case was opened from the FIR yet.
func (g *LinkageGate) CanLinkCaseToFir(ctx context.Context, firID uuid.UUID) (bool, error) {
	return gateOutcome(g.checkCaseLink(ctx, firID))
}

func (g *LinkageGate) CheckChallanToReport(ctx context.Context, reportID uuid.UUID) error {
	holder, err := g.challans.LinkedChallanID(ctx, reportID)
	if err != nil {
		return err
	}
	if holder != nil {
		return newError(ErrAlreadyLinked, "emission report %s is already linked to challan %s", reportID, *holder)
	}
	return nil
}

// CheckFirToChallan returns the challan, with its violation loaded, when an FIR may be
// filed from it.
func (g *LinkageGate) CheckFirToChallan(ctx context.Context, challanID uuid.UUID) (*model.Challan, error) {
	challan, err := g.challans.GetByID(ctx, challanID)
	if err != nil {
		return nil, notFound(err, "challan", challanID)
	}
	if challan.Violation == nil || !challan.Violation.IsCognizable {
		return nil, newError(ErrNotCognizable, "challan %s is for a non-cognizable violation", challanID)
	}
	holder, err := g.firs.LinkedFirID(ctx, challanID)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		return nil, newError(ErrAlreadyLinked, "challan %s is already linked to FIR %s", challanID, *holder)
	}
	return challan, nil
}

// CheckCaseToFir returns the FIR, with its challan and emission report loaded, when a case
// may be opened from it.
func (g *LinkageGate) CheckCaseToFir(ctx context.Context, firID uuid.UUID) (*model.Fir, error) {
	fir, err := g.firs.GetByID(ctx, firID)
	if err != nil {
		return nil, notFound(err, "FIR", firID)
	}
	if err := g.checkCaseLink(ctx, firID); err != nil {
		return nil, err
	}
	return fir, nil
}

func (g *LinkageGate) checkCaseLink(ctx context.Context, firID uuid.UUID) error {
	holder, err := g.cases.LinkedCaseID(ctx, firID)
	if err != nil {
		return err
	}
	if holder != nil {
		return newError(ErrAlreadyLinked, "FIR %s is already linked to case %s", firID, *holder)
	}
	return nil
}

func gateOutcome(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAlreadyLinked), errors.Is(err, ErrNotCognizable), errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
