package operations

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/view"
)

var execCtx = common.NewExecutionContext("tester")

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&view.View{ID: "v1", Name: "One", Status: view.StatusActive},
		&view.View{ID: "v2", Name: "Two", Status: view.StatusActive},
		&team.Team{ID: "t1", Name: "Blue", ViewID: "v1"},
		&application.Application{ID: "a1", Name: "Mail", ViewID: "v1"},
		&application.Application{ID: "a2", Name: "Chat", ViewID: "v2"},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

func TestCreateApplication(t *testing.T) {
	s, uow := setup()
	uc := NewCreateApplicationUseCase(s.Views(), uow)

	if r := uc.Execute(context.Background(), CreateApplicationCommand{ViewID: "v1", Name: "Wiki", Embeddable: true}, execCtx); r.IsFailure() {
		t.Fatalf("create failed: %v", r.Error())
	}
	apps, _ := s.Applications().FindByView(context.Background(), "v1")
	if len(apps) != 2 || !apps[1].Embeddable {
		t.Errorf("unexpected applications: %+v", apps)
	}

	r := uc.Execute(context.Background(), CreateApplicationCommand{ViewID: "nope", Name: "Wiki"}, execCtx)
	if r.IsSuccess() || r.Error().Code != common.ErrCodeViewNotFound {
		t.Errorf("expected VIEW_NOT_FOUND, got %v", r.Error())
	}
}

func TestCreateInstance(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateInstanceCommand
		code string
	}{
		{"same view", CreateInstanceCommand{TeamID: "t1", ApplicationID: "a1", DisplayOrder: 1}, ""},
		{"other view", CreateInstanceCommand{TeamID: "t1", ApplicationID: "a2"}, common.ErrCodeInvalidValue},
		{"missing team", CreateInstanceCommand{TeamID: "nope", ApplicationID: "a1"}, common.ErrCodeTeamNotFound},
		{"missing application", CreateInstanceCommand{TeamID: "t1", ApplicationID: "nope"}, common.ErrCodeEntityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, uow := setup()
			r := NewCreateInstanceUseCase(s.Applications(), s.Teams(), uow).Execute(context.Background(), tt.cmd, execCtx)
			if tt.code == "" {
				if r.IsFailure() {
					t.Fatalf("create failed: %v", r.Error())
				}
				return
			}
			if r.IsSuccess() || r.Error().Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, r.Error())
			}
		})
	}
}

func TestCreateInstanceTwiceConflicts(t *testing.T) {
	s, uow := setup()
	uc := NewCreateInstanceUseCase(s.Applications(), s.Teams(), uow)
	cmd := CreateInstanceCommand{TeamID: "t1", ApplicationID: "a1"}

	if r := uc.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("create failed: %v", r.Error())
	}
	r := uc.Execute(context.Background(), cmd, execCtx)
	if r.IsSuccess() || r.Error().Kind != common.ErrorKindConflict {
		t.Errorf("expected conflict from the unique index, got %v", r.Error())
	}
}

func TestDeleteApplicationRemovesInstances(t *testing.T) {
	s, uow := setup()
	s.MustPut(&application.Instance{ID: "i1", TeamID: "t1", ApplicationID: "a1"})

	if r := NewDeleteApplicationUseCase(s.Applications(), uow).Execute(context.Background(), DeleteApplicationCommand{ID: "a1"}, execCtx); r.IsFailure() {
		t.Fatalf("delete failed: %v", r.Error())
	}
	if n := s.Count(application.InstanceCollectionName); n != 0 {
		t.Errorf("instances should be removed, %d left", n)
	}
	r := NewDeleteInstanceUseCase(s.Applications(), uow).Execute(context.Background(), DeleteInstanceCommand{ID: "i1"}, execCtx)
	if r.IsSuccess() || r.Error().Kind != common.ErrorKindNotFound {
		t.Errorf("expected not found, got %v", r.Error())
	}
}
