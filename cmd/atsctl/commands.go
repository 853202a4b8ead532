package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"go-ats-backend/pkg/client"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  version=%s  storage=%s  at=%s\n", h.Status, h.Version, h.Storage, h.Timestamp)
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	f := client.NewFilterState()
	var status, sortBy, sortOrder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Status = client.CandidateStatus(status)
			f.SortBy = client.SortField(sortBy)
			f.SortOrder = client.SortOrder(sortOrder)

			page, err := opts.client().ListCandidates(cmd.Context(), f)
			if err != nil {
				return err
			}
			renderCandidates(cmd.OutOrStdout(), page.Items)
			p := page.Pagination
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&f.Page, "page", f.Page, "page number")
	cmd.Flags().IntVar(&f.Limit, "limit", f.Limit, "page size (max 100)")
	cmd.Flags().StringVar(&f.Search, "search", "", "match first name, last name or email")
	cmd.Flags().StringVar(&status, "status", "", "active|in_review|hired|rejected|archived")
	cmd.Flags().StringVar(&sortBy, "sort-by", string(f.SortBy), "createdAt|lastName|email")
	cmd.Flags().StringVar(&sortOrder, "sort-order", string(f.SortOrder), "asc|desc")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one candidate with education, experience and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client().GetCandidate(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	form := client.NewCandidateForm()
	edu := &form.Education[0]
	exp := &form.Experience[0]

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a candidate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client().CreateCandidate(cmd.Context(), form.Input())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created candidate %d\n", c.ID)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&form.FirstName, "first-name", "", "first name")
	fl.StringVar(&form.LastName, "last-name", "", "last name")
	fl.StringVar(&form.Email, "email", "", "email address")
	fl.StringVar(&form.Phone, "phone", "", "phone number")
	fl.StringVar(&form.Address, "address", "", "postal address")
	fl.StringVar(&form.Notes, "notes", "", "free-form notes")
	fl.StringVar(&edu.Institution, "institution", "", "latest education institution")
	fl.StringVar(&edu.Degree, "degree", "", "degree")
	fl.StringVar(&edu.FieldOfStudy, "field-of-study", "", "field of study")
	fl.StringVar(&edu.StartDate, "education-start", "", "education start date (YYYY-MM-DD)")
	fl.StringVar(&edu.EndDate, "education-end", "", "education end date (YYYY-MM-DD)")
	fl.BoolVar(&edu.IsCurrent, "education-current", false, "still studying")
	fl.StringVar(&exp.Company, "company", "", "latest company")
	fl.StringVar(&exp.Position, "position", "", "latest position")
	fl.StringVar(&exp.StartDate, "experience-start", "", "experience start date (YYYY-MM-DD)")
	fl.StringVar(&exp.EndDate, "experience-end", "", "experience end date (YYYY-MM-DD)")
	fl.BoolVar(&exp.IsCurrent, "experience-current", false, "still employed")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var firstName, lastName, email, phone, address, notes, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update candidate fields; only flags that are set are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			var patch client.UpdateCandidateInput
			set := func(name string, v *string) *string {
				if fl.Changed(name) {
					return v
				}
				return nil
			}
			patch.FirstName = set("first-name", &firstName)
			patch.LastName = set("last-name", &lastName)
			patch.Email = set("email", &email)
			patch.Phone = set("phone", &phone)
			patch.Address = set("address", &address)
			patch.Notes = set("notes", &notes)
			if fl.Changed("status") {
				s := client.CandidateStatus(status)
				patch.Status = &s
			}

			c, err := opts.client().UpdateCandidate(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated candidate %d (%s)\n", c.ID, c.Status)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&firstName, "first-name", "", "first name")
	fl.StringVar(&lastName, "last-name", "", "last name")
	fl.StringVar(&email, "email", "", "email address")
	fl.StringVar(&phone, "phone", "", "phone number")
	fl.StringVar(&address, "address", "", "postal address")
	fl.StringVar(&notes, "notes", "", "free-form notes")
	fl.StringVar(&status, "status", "", "active|in_review|hired|rejected|archived")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a candidate and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.client().DeleteCandidate(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted candidate %d\n", id)
			return nil
		},
	}
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	var documentType string

	cmd := &cobra.Command{
		Use:   "upload <candidate-id> <file>",
		Short: "Upload a PDF or DOCX document (max 5 MB)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := opts.client().UploadDocument(cmd.Context(), id, args[1], documentType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded document %d (%s, %s)\n", doc.ID, doc.OriginalName, client.FormatFileSize(doc.FileSize))
			return nil
		},
	}
	cmd.Flags().StringVar(&documentType, "type", client.DefaultDocumentType, "document type")
	return cmd
}

func newDocumentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "documents <candidate-id>",
		Short: "List a candidate's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			docs, err := opts.client().ListDocuments(cmd.Context(), id)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Name", "Type", "Size", "Uploaded"})
			for _, d := range docs {
				table.Append([]string{
					strconv.FormatInt(d.ID, 10),
					d.OriginalName,
					d.DocumentType,
					client.FormatFileSize(d.FileSize),
					d.UploadedAt.Format(time.RFC3339),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newRemoveDocumentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-document <candidate-id> <document-id>",
		Short: "Delete one of a candidate's documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidateID, err := parseID(args[0])
			if err != nil {
				return err
			}
			documentID, err := parseID(args[1])
			if err != nil {
				return err
			}
			res, err := opts.client().DeleteDocument(cmd.Context(), candidateID, documentID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func renderCandidates(w io.Writer, items []client.Candidate) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Email", "Status", "Latest Position", "Created"})
	for _, c := range items {
		position := ""
		if len(c.Experience) > 0 {
			position = c.Experience[0].Position + " @ " + c.Experience[0].Company
		}
		table.Append([]string{
			strconv.FormatInt(c.ID, 10),
			c.FullName(),
			c.Email,
			string(c.Status),
			position,
			c.CreatedAt.Format("2006-01-02"),
		})
	}
	table.Render()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
