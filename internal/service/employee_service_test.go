package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

func seedBusiness(t *testing.T, store *repository.MemoryStore, code string) domain.Business {
	t.Helper()
	b := domain.Business{BusinessID: code, BusinessName: "Gupta Stores", OwnerID: uuid.New()}
	if err := store.CreateBusiness(context.Background(), &b); err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return b
}

func TestEmployeeRequest_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	employees := NewEmployeeService(store, store)
	b := seedBusiness(t, store, "DHN-90001")

	r, err := employees.SubmitRequest(ctx, SubmitRequestInput{
		Email:      "Asha@Example.com",
		FirstName:  "Asha",
		LastName:   "Patel",
		Phone:      "9876500001",
		BusinessID: b.BusinessID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %s", r.Email)
	}

	// pending status is reported verbatim with the business code
	checked, err := employees.CheckRequest(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if checked.RequestStatus != domain.RequestStatusPending || checked.BusinessID != b.BusinessID {
		t.Fatalf("check wrong: %+v", checked)
	}

	// pending blocks credential creation
	if _, err := employees.ConsumeRequest(ctx, "asha@example.com", "secret123"); err != ErrRequestNotApproved {
		t.Fatalf("expected not approved, got %v", err)
	}

	resolved, err := employees.ResolveRequest(ctx, r.RequestID, b.BusinessUID, true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// the stored row comes back, not a bare status
	if resolved.Email != "asha@example.com" || resolved.FirstName != "Asha" || resolved.RequestStatus != domain.RequestStatusApproved {
		t.Fatalf("resolved wrong: %+v", resolved)
	}

	emp, err := employees.ConsumeRequest(ctx, "asha@example.com", "secret123")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if emp.WorksAt != b.BusinessUID || emp.EmployeeName != "Asha Patel" {
		t.Fatalf("employee wrong: %+v", emp)
	}
	if bcrypt.CompareHashAndPassword(emp.PasswordHash, []byte("secret123")) != nil {
		t.Fatalf("password hash does not verify")
	}

	// request row is gone, a second consume fails
	if _, err := employees.CheckRequest(ctx, "asha@example.com"); err != repository.ErrNotFound {
		t.Fatalf("expected request gone, got %v", err)
	}
	if _, err := employees.ConsumeRequest(ctx, "asha@example.com", "secret123"); err != ErrRequestNotApproved {
		t.Fatalf("expected not approved on second consume, got %v", err)
	}

	list, _ := employees.ListEmployees(ctx, b.BusinessUID)
	if len(list) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(list))
	}
}

func TestEmployeeRequest_RejectedBlocksConsume(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	employees := NewEmployeeService(store, store)
	b := seedBusiness(t, store, "DHN-90002")

	r, err := employees.SubmitRequest(ctx, SubmitRequestInput{
		Email: "ravi@example.com", FirstName: "Ravi", BusinessID: b.BusinessID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := employees.ResolveRequest(ctx, r.RequestID, b.BusinessUID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}

	checked, _ := employees.CheckRequest(ctx, "ravi@example.com")
	if checked.RequestStatus != domain.RequestStatusRejected {
		t.Fatalf("expected rejected, got %s", checked.RequestStatus)
	}
	if _, err := employees.ConsumeRequest(ctx, "ravi@example.com", "secret123"); err != ErrRequestNotApproved {
		t.Fatalf("expected not approved, got %v", err)
	}
}

func TestEmployeeRequest_UnknownBusinessAndDuplicates(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	employees := NewEmployeeService(store, store)
	b := seedBusiness(t, store, "DHN-90003")

	// unknown public code is rejected up front
	if _, err := employees.SubmitRequest(ctx, SubmitRequestInput{
		Email: "x@example.com", FirstName: "X", BusinessID: "NO-SUCH",
	}); err != repository.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	in := SubmitRequestInput{Email: "x@example.com", FirstName: "X", BusinessID: b.BusinessID}
	if _, err := employees.SubmitRequest(ctx, in); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := employees.SubmitRequest(ctx, in); err != repository.ErrDuplicateRequest {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestEmployeeRequest_ConsumeFailureKeepsApproval(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	employees := NewEmployeeService(store, store)
	b := seedBusiness(t, store, "DHN-90006")

	// an account with this email already exists
	taken := domain.Employee{EmployeeName: "Old Asha", Email: "asha@example.com", WorksAt: b.BusinessUID, PasswordHash: []byte("x")}
	if err := store.CreateEmployee(ctx, &taken); err != nil {
		t.Fatalf("seed employee: %v", err)
	}

	r, err := employees.SubmitRequest(ctx, SubmitRequestInput{
		Email: "asha@example.com", FirstName: "Asha", BusinessID: b.BusinessID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := employees.ResolveRequest(ctx, r.RequestID, b.BusinessUID, true); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if _, err := employees.ConsumeRequest(ctx, "asha@example.com", "secret123"); err != repository.ErrConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// the claim is rolled back: the approved row is still there and consumable
	checked, err := employees.CheckRequest(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("check after failed consume: %v", err)
	}
	if checked.RequestID != r.RequestID || checked.RequestStatus != domain.RequestStatusApproved {
		t.Fatalf("approval lost: %+v", checked)
	}

	list, _ := employees.ListEmployees(ctx, b.BusinessUID)
	if len(list) != 1 {
		t.Fatalf("expected only the pre-existing employee, got %d", len(list))
	}
}

func TestEmployeeRequest_ResolveAuthority(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	employees := NewEmployeeService(store, store)
	target := seedBusiness(t, store, "DHN-90004")
	other := seedBusiness(t, store, "DHN-90005")

	r, err := employees.SubmitRequest(ctx, SubmitRequestInput{
		Email: "y@example.com", FirstName: "Y", BusinessID: target.BusinessID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// a different business cannot resolve someone else's request
	if _, err := employees.ResolveRequest(ctx, r.RequestID, other.BusinessUID, true); err != repository.ErrConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := employees.ResolveRequest(ctx, r.RequestID, target.BusinessUID, true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
}
