package workflow

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/trip"
)

func dept(primary, secondary, tertiary string) *identity.Department {
	return &identity.Department{
		DepartmentID:       "dddddddddddddddddddddddddddddddd",
		PrimaryManagerID:   primary,
		SecondaryManagerID: secondary,
		TertiaryManagerID:  tertiary,
		Active:             true,
	}
}

func project(primary, secondary string) *identity.Project {
	return &identity.Project{
		ProjectID:          "pppppppppppppppppppppppppppppppp",
		PrimaryManagerID:   primary,
		SecondaryManagerID: secondary,
		Active:             true,
	}
}

func stepShape(steps []Step) []StepType {
	out := make([]StepType, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Type)
	}
	return out
}

func TestGenerate_Ticket(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      GenerateInput
		want    []StepType
		wantErr bool
	}{
		{
			name: "primary manager only, below tertiary threshold",
			in: GenerateInput{
				Type: trip.TypeTicket, Department: dept("m1", "", "m3"),
				DistanceKM: 100, TertiaryDistanceKM: 500, Now: now,
			},
			want: []StepType{StepDeptManager, StepFinance},
		},
		{
			name: "secondary configured",
			in: GenerateInput{
				Type: trip.TypeTicket, Department: dept("m1", "m2", ""),
				DistanceKM: 100, TertiaryDistanceKM: 500, Now: now,
			},
			want: []StepType{StepDeptManager, StepDeptManager2, StepFinance},
		},
		{
			name: "tertiary configured and distance above threshold",
			in: GenerateInput{
				Type: trip.TypeTicket, Department: dept("m1", "m2", "m3"),
				DistanceKM: 750, TertiaryDistanceKM: 500, Now: now,
			},
			want: []StepType{StepDeptManager, StepDeptManager2, StepDeptManager3, StepFinance},
		},
		{
			name: "tertiary configured but distance at threshold stays out",
			in: GenerateInput{
				Type: trip.TypeTicket, Department: dept("m1", "", "m3"),
				DistanceKM: 500, TertiaryDistanceKM: 500, Now: now,
			},
			want: []StepType{StepDeptManager, StepFinance},
		},
		{
			name:    "no department",
			in:      GenerateInput{Type: trip.TypeTicket, Now: now},
			wantErr: true,
		},
		{
			name: "inactive department",
			in: GenerateInput{
				Type:       trip.TypeTicket,
				Department: &identity.Department{PrimaryManagerID: "m1", Active: false},
				Now:        now,
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			steps, err := Generate(tc.in)
			if tc.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("want ConfigError, got %v", err)
				}
				if steps != nil {
					t.Fatalf("partial workflow returned on error: %v", steps)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got := stepShape(steps); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("steps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGenerate_Planned(t *testing.T) {
	now := time.Now().UTC()

	steps, err := Generate(GenerateInput{Type: trip.TypePlanned, Project: project("pm1", ""), Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := stepShape(steps); !reflect.DeepEqual(got, []StepType{StepProjectManager, StepFinance}) {
		t.Fatalf("steps = %v", got)
	}
	if steps[0].ApproverID != "pm1" {
		t.Fatalf("primary approver = %q", steps[0].ApproverID)
	}
	if steps[1].ApproverID != "" {
		t.Fatalf("finance gate must not be pinned to one actor, got %q", steps[1].ApproverID)
	}

	steps, err = Generate(GenerateInput{Type: trip.TypePlanned, Project: project("pm1", "pm2"), Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := stepShape(steps); !reflect.DeepEqual(got, []StepType{StepProjectManager, StepProjectManager2, StepFinance}) {
		t.Fatalf("steps = %v", got)
	}

	if _, err := Generate(GenerateInput{Type: trip.TypePlanned, Now: now}); err == nil {
		t.Fatal("want ConfigError without project")
	}
}

func TestGenerate_Urgent(t *testing.T) {
	now := time.Now().UTC()

	// documentation is mandatory, with or without a project
	if _, err := Generate(GenerateInput{Type: trip.TypeUrgent, Now: now}); err == nil {
		t.Fatal("want ConfigError without pre-approval doc")
	}
	if _, err := Generate(GenerateInput{Type: trip.TypeUrgent, Project: project("pm1", ""), Now: now}); err == nil {
		t.Fatal("want ConfigError without pre-approval doc (with project)")
	}

	steps, err := Generate(GenerateInput{Type: trip.TypeUrgent, HasPreapprovalDoc: true, Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := stepShape(steps); !reflect.DeepEqual(got, []StepType{StepFinance}) {
		t.Fatalf("urgent without project: steps = %v", got)
	}

	steps, err = Generate(GenerateInput{Type: trip.TypeUrgent, HasPreapprovalDoc: true, Project: project("pm1", "pm2"), Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := stepShape(steps); !reflect.DeepEqual(got, []StepType{StepProjectManager, StepProjectManager2, StepFinance}) {
		t.Fatalf("urgent with project: steps = %v", got)
	}
}

func TestGenerate_DeterministicAndOrdered(t *testing.T) {
	in := GenerateInput{
		Type: trip.TypeTicket, Department: dept("m1", "m2", "m3"),
		DistanceKM: 900, TertiaryDistanceKM: 500, Now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	first, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := 1; i < 50; i++ {
		again, err := Generate(in)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("generation is not deterministic:\n%v\n%v", first, again)
		}
	}
	for i, s := range first {
		if s.StepOrder != i+1 {
			t.Fatalf("order values must be strictly increasing from 1, got %v", first)
		}
		if !s.Required {
			t.Fatalf("generated step %d must be required", i)
		}
		if s.Status != StepPending {
			t.Fatalf("generated step %d must start pending", i)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	steps := []Step{{Type: StepProjectManager, StepOrder: 1}, {Type: StepFinance, StepOrder: 2}}
	if got := InitialStatus(steps); got != trip.StatusPendingProject {
		t.Fatalf("InitialStatus = %s", got)
	}
	if got := InitialStatus(nil); got != trip.StatusPendingFinance {
		t.Fatalf("InitialStatus(empty) = %s", got)
	}
}
