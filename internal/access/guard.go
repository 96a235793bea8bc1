// Package access decides whether a session may perform an action on a resource.
// Decisions are pure: nothing here reads or writes storage.
package access

import (
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
)

type Action string

const (
	ActionReadPublicJobs Action = "read_public_jobs"

	ActionListUsers  Action = "list_users"
	ActionCreateUser Action = "create_user"
	ActionEditUser   Action = "edit_user"
	ActionDeleteUser Action = "delete_user"

	ActionListCompanies Action = "list_companies"
	ActionCreateCompany Action = "create_company"
	ActionEditCompany   Action = "edit_company"
	ActionDeleteCompany Action = "delete_company"
	ActionViewUsage     Action = "view_company_usage"

	ActionUseTemplate    Action = "use_template"
	ActionCreateTemplate Action = "create_template"
	ActionEditTemplate   Action = "edit_template"
	ActionDeleteTemplate Action = "delete_template"

	ActionGenerateDocument Action = "generate_document"
	ActionReadDocument     Action = "read_document"
	ActionDeleteDocument   Action = "delete_document"

	ActionManageProfile Action = "manage_candidate_profile"
	ActionTailorCV      Action = "tailor_cv"

	ActionViewJob   Action = "view_job"
	ActionCreateJob Action = "create_job"
	ActionUpdateJob Action = "update_job"
	ActionDeleteJob Action = "delete_job"

	ActionApplyToJob             Action = "apply_to_job"
	ActionViewJobApplications    Action = "view_job_applications"
	ActionUpdateApplication      Action = "update_application"
	ActionWithdrawOwnApplication Action = "withdraw_application"
)

// Resource describes the target of an action. Empty fields mean "not owned by anyone".
type Resource struct {
	OwnerID   string
	CompanyID string
}

type rule func(s *domain.Session, res Resource) error

var rules = map[Action]rule{
	ActionListUsers:  companyAdmin("cannot list users of another company"),
	ActionCreateUser: companyAdmin("cannot create users in another company"),
	ActionEditUser:   companyAdmin("cannot edit users of another company"),
	ActionDeleteUser: companyAdmin("cannot delete users of another company"),

	ActionListCompanies: superAdminOnly("only SUPERADMIN can list companies"),
	ActionCreateCompany: superAdminOnly("only SUPERADMIN can create companies"),
	ActionEditCompany:   superAdminOnly("only SUPERADMIN can edit companies"),
	ActionDeleteCompany: superAdminOnly("only SUPERADMIN can delete companies"),
	ActionViewUsage:     companyAdmin("cannot view usage of another company"),

	ActionUseTemplate:    companyMember("template belongs to another company"),
	ActionCreateTemplate: companyAdmin("cannot create templates for another company"),
	ActionEditTemplate:   companyAdmin("cannot edit templates of another company"),
	ActionDeleteTemplate: companyAdmin("cannot delete templates of another company"),

	ActionGenerateDocument: roles("candidates cannot generate recruiter documents",
		domain.RoleUser, domain.RoleAdmin),
	ActionReadDocument:   owner("document belongs to another user"),
	ActionDeleteDocument: owner("document belongs to another user"),

	ActionManageProfile: owner("profile belongs to another user"),
	ActionTailorCV: roles("only candidates can tailor a master CV",
		domain.RoleCandidate, domain.RoleUser),

	ActionViewJob: authenticated,
	ActionCreateJob: roles("candidates cannot create job listings",
		domain.RoleUser, domain.RoleAdmin),
	ActionUpdateJob: jobManager("job listing belongs to another user or company"),
	ActionDeleteJob: jobManager("job listing belongs to another user or company"),

	ActionApplyToJob: roles("only candidates can apply to jobs",
		domain.RoleCandidate, domain.RoleUser),
	ActionViewJobApplications:    jobManager("cannot view applications of this job"),
	ActionUpdateApplication:      jobManager("cannot update applications of this job"),
	ActionWithdrawOwnApplication: owner("application belongs to another candidate"),
}

// Authorize returns nil when s may perform action on res. A nil session is only
// allowed to read public job listings.
func Authorize(s *domain.Session, action Action, res Resource) error {
	if action == ActionReadPublicJobs {
		return nil
	}
	if s == nil || s.UserID == "" {
		return apperror.Unauthorized("Authentication required")
	}
	if s.Role == domain.RoleSuperAdmin {
		return nil
	}
	r, ok := rules[action]
	if !ok {
		return apperror.Forbidden("unknown action " + string(action))
	}
	return r(s, res)
}

// CanAssignRole reports whether s may give role to a user. Only SUPERADMIN may
// hand out SUPERADMIN.
func CanAssignRole(s *domain.Session, role domain.Role) error {
	if s == nil {
		return apperror.Unauthorized("Authentication required")
	}
	if !role.Valid() {
		return apperror.BadRequest("Invalid role")
	}
	switch s.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleAdmin:
		if role == domain.RoleSuperAdmin {
			return apperror.Forbidden("only SUPERADMIN can grant SUPERADMIN")
		}
		return nil
	}
	return apperror.Forbidden("cannot assign roles")
}

func authenticated(*domain.Session, Resource) error { return nil }

func superAdminOnly(reason string) rule {
	return func(*domain.Session, Resource) error {
		return apperror.Forbidden(reason)
	}
}

func roles(reason string, allowed ...domain.Role) rule {
	return func(s *domain.Session, _ Resource) error {
		for _, r := range allowed {
			if s.Role == r {
				return nil
			}
		}
		return apperror.Forbidden(reason)
	}
}

func sameCompany(s *domain.Session, res Resource) bool {
	return s.CompanyID != "" && s.CompanyID == res.CompanyID
}

func companyAdmin(reason string) rule {
	return func(s *domain.Session, res Resource) error {
		if s.Role != domain.RoleAdmin {
			return apperror.Forbidden("insufficient role")
		}
		if !sameCompany(s, res) {
			return apperror.Forbidden(reason)
		}
		return nil
	}
}

func companyMember(reason string) rule {
	return func(s *domain.Session, res Resource) error {
		if s.Role == domain.RoleCandidate {
			return apperror.Forbidden("insufficient role")
		}
		if !sameCompany(s, res) {
			return apperror.Forbidden(reason)
		}
		return nil
	}
}

func owner(reason string) rule {
	return func(s *domain.Session, res Resource) error {
		if res.OwnerID == "" || res.OwnerID != s.UserID {
			return apperror.Forbidden(reason)
		}
		return nil
	}
}

// jobManager allows the job's creator and admins of the owning company.
func jobManager(reason string) rule {
	return func(s *domain.Session, res Resource) error {
		if s.Role == domain.RoleCandidate {
			return apperror.Forbidden("insufficient role")
		}
		if res.OwnerID != "" && res.OwnerID == s.UserID {
			return nil
		}
		if s.Role == domain.RoleAdmin && sameCompany(s, res) {
			return nil
		}
		return apperror.Forbidden(reason)
	}
}
