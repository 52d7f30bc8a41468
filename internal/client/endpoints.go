package client

import (
	"net/url"
	"strings"
)

// Endpoints are the API paths relative to the base URL.
type Endpoints struct {
	ListCourses   string
	CreateCourse  string
	UpdateCourse  string
	DeleteCourse  string
	ListSubjects  string
	CreateSubject string
	UpdateSubject string
	DeleteSubject string
	CreateEnquiry string
	StudentLogin  string
	AdminLogin    string
}

// DefaultEndpoints returns the council API's routes.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		ListCourses:   "/course/all",
		CreateCourse:  "/course/create",
		UpdateCourse:  "/course/update",
		DeleteCourse:  "/course/delete",
		ListSubjects:  "/subject/all",
		CreateSubject: "/subject/create",
		UpdateSubject: "/subject/update",
		DeleteSubject: "/subject/delete",
		CreateEnquiry: "/enquiry/create",
		StudentLogin:  "/student/login",
		AdminLogin:    "/admin/login",
	}
}

// withID appends an escaped id segment, e.g. /course/delete/abc.
func withID(path, id string) string {
	return strings.TrimRight(path, "/") + "/" + url.PathEscape(id)
}
