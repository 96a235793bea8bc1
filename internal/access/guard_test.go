package access

import (
	"strings"
	"testing"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

var (
	superAdmin = &domain.Session{UserID: "sa", Role: domain.RoleSuperAdmin}
	adminA     = &domain.Session{UserID: "admin-a", Role: domain.RoleAdmin, CompanyID: "company-a"}
	userA      = &domain.Session{UserID: "user-a", Role: domain.RoleUser, CompanyID: "company-a"}
	candidate  = &domain.Session{UserID: "cand", Role: domain.RoleCandidate}
	adminNoCo  = &domain.Session{UserID: "admin-x", Role: domain.RoleAdmin}
)

func TestAuthorize(t *testing.T) {
	inA := Resource{CompanyID: "company-a"}
	inB := Resource{CompanyID: "company-b"}

	tests := []struct {
		name    string
		session *domain.Session
		action  Action
		res     Resource
		want    apperror.Kind // empty means allowed
	}{
		{"anonymous reads public jobs", nil, ActionReadPublicJobs, Resource{}, ""},
		{"anonymous cannot view job", nil, ActionViewJob, Resource{}, apperror.KindUnauthorized},
		{"anonymous cannot generate", nil, ActionGenerateDocument, Resource{}, apperror.KindUnauthorized},

		{"admin edits user in own company", adminA, ActionEditUser, inA, ""},
		{"admin cannot edit user in other company", adminA, ActionEditUser, inB, apperror.KindForbidden},
		{"admin cannot delete user in other company", adminA, ActionDeleteUser, inB, apperror.KindForbidden},
		{"admin cannot edit template in other company", adminA, ActionEditTemplate, inB, apperror.KindForbidden},
		{"admin cannot delete template in other company", adminA, ActionDeleteTemplate, inB, apperror.KindForbidden},
		{"admin without company cannot manage companyless user", adminNoCo, ActionEditUser, Resource{}, apperror.KindForbidden},
		{"admin cannot create company", adminA, ActionCreateCompany, Resource{}, apperror.KindForbidden},
		{"admin views own usage", adminA, ActionViewUsage, inA, ""},

		{"superadmin edits user anywhere", superAdmin, ActionEditUser, inB, ""},
		{"superadmin deletes template anywhere", superAdmin, ActionDeleteTemplate, inB, ""},
		{"superadmin deletes company", superAdmin, ActionDeleteCompany, inB, ""},
		{"superadmin reads any document", superAdmin, ActionReadDocument, Resource{OwnerID: "someone"}, ""},

		{"user cannot manage users", userA, ActionCreateUser, inA, apperror.KindForbidden},
		{"user cannot create templates", userA, ActionCreateTemplate, inA, apperror.KindForbidden},
		{"user uses company template", userA, ActionUseTemplate, inA, ""},
		{"user cannot use other company template", userA, ActionUseTemplate, inB, apperror.KindForbidden},
		{"user generates", userA, ActionGenerateDocument, Resource{}, ""},
		{"user reads own document", userA, ActionReadDocument, Resource{OwnerID: "user-a"}, ""},
		{"user cannot read others document", userA, ActionReadDocument, Resource{OwnerID: "user-b"}, apperror.KindForbidden},
		{"admin cannot delete others document", adminA, ActionDeleteDocument, Resource{OwnerID: "user-a", CompanyID: "company-a"}, apperror.KindForbidden},

		{"candidate cannot generate recruiter doc", candidate, ActionGenerateDocument, Resource{}, apperror.KindForbidden},
		{"candidate tailors", candidate, ActionTailorCV, Resource{}, ""},
		{"candidate applies", candidate, ActionApplyToJob, Resource{}, ""},
		{"candidate cannot create job", candidate, ActionCreateJob, Resource{}, apperror.KindForbidden},
		{"candidate cannot view job applications", candidate, ActionViewJobApplications, Resource{OwnerID: "cand"}, apperror.KindForbidden},
		{"candidate withdraws own application", candidate, ActionWithdrawOwnApplication, Resource{OwnerID: "cand"}, ""},

		{"creator updates own job", userA, ActionUpdateJob, Resource{OwnerID: "user-a", CompanyID: "company-b"}, ""},
		{"company admin updates colleague job", adminA, ActionUpdateJob, Resource{OwnerID: "user-a", CompanyID: "company-a"}, ""},
		{"user cannot update colleague job", userA, ActionUpdateJob, Resource{OwnerID: "user-z", CompanyID: "company-a"}, apperror.KindForbidden},
		{"admin cannot update other company job", adminA, ActionDeleteJob, Resource{OwnerID: "user-z", CompanyID: "company-b"}, apperror.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.session, tt.action, tt.res)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.want, apperror.KindOf(err))
			if tt.want == apperror.KindForbidden {
				assert.True(t, strings.HasPrefix(err.Error(), "403 Forbidden"), err.Error())
			}
		})
	}
}

func TestUnknownActionIsDenied(t *testing.T) {
	err := Authorize(userA, Action("launch_rockets"), Resource{})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestCanAssignRole(t *testing.T) {
	assert.NoError(t, CanAssignRole(superAdmin, domain.RoleSuperAdmin))
	assert.NoError(t, CanAssignRole(adminA, domain.RoleUser))
	assert.True(t, apperror.Is(CanAssignRole(adminA, domain.RoleSuperAdmin), apperror.KindForbidden))
	assert.True(t, apperror.Is(CanAssignRole(userA, domain.RoleUser), apperror.KindForbidden))
	assert.True(t, apperror.Is(CanAssignRole(adminA, domain.Role("ROOT")), apperror.KindValidation))
	assert.True(t, apperror.Is(CanAssignRole(nil, domain.RoleUser), apperror.KindUnauthorized))
}
