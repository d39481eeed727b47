package repo

import (
	"math"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	submissionsTableName = "founder_submissions"
	usersTableName       = "users"
)

// textSize makes ent emit an unbounded text column.
const textSize = math.MaxInt32

var (
	// SubmissionsColumns holds the columns for the "founder_submissions" table.
	SubmissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "full_name", Type: field.TypeString, Size: 100},
		{Name: "email", Type: field.TypeString, Size: 255},
		{Name: "phone", Type: field.TypeString, Size: 50, Default: ""},
		{Name: "country", Type: field.TypeString, Size: 100},
		{Name: "linkedin", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "website", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "company_name", Type: field.TypeString, Size: 150},
		{Name: "company_website", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "industry", Type: field.TypeString, Size: 100},
		{Name: "stage", Type: field.TypeString, Size: 50},
		{Name: "year_founded", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "team_size", Type: field.TypeString, Size: 20, Default: ""},
		{Name: "bio", Type: field.TypeString, Size: textSize},
		{Name: "description", Type: field.TypeString, Size: textSize},
		{Name: "challenge", Type: field.TypeString, Size: textSize},
		{Name: "achievement", Type: field.TypeString, Size: textSize},
		{Name: "lesson", Type: field.TypeString, Size: textSize},
		{Name: "insight", Type: field.TypeString, Size: textSize},
		{Name: "advice", Type: field.TypeString, Size: textSize},
		{Name: "social_media", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "interview", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "photo_path", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "logo_path", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "status", Type: field.TypeString, Size: 20, Default: "pending"},
		{Name: "period", Type: field.TypeString, Size: 7},
		{Name: "submitted_at", Type: field.TypeTime},
	}
	// SubmissionsTable holds the schema information for the "founder_submissions" table.
	SubmissionsTable = &schema.Table{
		Name:       submissionsTableName,
		Columns:    SubmissionsColumns,
		PrimaryKey: []*schema.Column{SubmissionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "submission_email_period",
				Unique:  true,
				Columns: []*schema.Column{SubmissionsColumns[2], SubmissionsColumns[25]},
			},
			{
				Name:    "submission_status",
				Unique:  false,
				Columns: []*schema.Column{SubmissionsColumns[24]},
			},
		},
	}

	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "full_name", Type: field.TypeString, Size: 100},
		{Name: "username", Type: field.TypeString, Size: 50, Unique: true},
		{Name: "email", Type: field.TypeString, Size: 255, Unique: true},
		{Name: "phone", Type: field.TypeString, Size: 50, Default: ""},
		{Name: "date_of_birth", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "gender", Type: field.TypeString, Size: 20, Default: ""},
		{Name: "address", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "company", Type: field.TypeString, Size: 150, Default: ""},
		{Name: "account_type", Type: field.TypeString, Size: 20},
		{Name: "role", Type: field.TypeString, Size: 20, Default: "member"},
		{Name: "password_hash", Type: field.TypeString, Size: 255},
		{Name: "verification_token", Type: field.TypeString, Size: 64, Default: ""},
		{Name: "email_verified", Type: field.TypeBool, Default: false},
		{Name: "status", Type: field.TypeString, Size: 20, Default: "pending"},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       usersTableName,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "user_verification_token",
				Unique:  false,
				Columns: []*schema.Column{UsersColumns[12]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SubmissionsTable,
		UsersTable,
	}
)
