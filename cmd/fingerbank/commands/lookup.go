package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/cmd/fingerbank/internal/bind"
)

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <fingerprint>...",
		Short:   "Find the entry that declares exactly this fingerprint",
		GroupID: "query",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := bind.ParseFingerprint(args)
			if err != nil {
				return err
			}

			c, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			e, ok := c.LookupExact(fp)
			if !ok {
				return fmt.Errorf("fingerprint %s: %w (try 'fingerbank match %s')", fp, errNotFound, fp)
			}
			return printEntry(cmd, newEntryView(c, e))
		},
	}
}

func newEntryCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "entry <id>",
		Short:   "Show a catalog entry",
		GroupID: "query",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := bind.ParseID(args[0])
			if err != nil {
				return err
			}

			c, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			e, ok := c.Entry(id)
			if !ok {
				return fmt.Errorf("entry %d: %w", id, errNotFound)
			}
			return printEntry(cmd, newEntryView(c, e))
		},
	}
}

func printEntry(cmd *cobra.Command, v entryView) error {
	rows := [][]string{
		{"id", strconv.Itoa(v.ID)},
		{"description", v.Description},
		{"vendor", dash(v.VendorID)},
		{"class", classLabel(v.ClassID, v.Class)},
		{"fingerprints", strings.Join(v.Fingerprints, "\n\t")},
	}
	return formatterFor(cmd).PrintData(v, []string{"field", "value"}, rows)
}

func newClassCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "class [entry-id]",
		Short: "Show the class an entry id belongs to",
		Example: `  fingerbank class 1201
  fingerbank class --list`,
		GroupID: "query",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			f := formatterFor(cmd)

			if list {
				views := make([]classView, 0, len(c.Classes()))
				rows := make([][]string, 0, len(c.Classes()))
				for _, cls := range c.Classes() {
					v := newClassView(cls)
					views = append(views, v)
					rows = append(rows, []string{strconv.Itoa(v.ID), v.Description, strings.Join(v.Members, ",")})
				}
				return f.PrintData(views, []string{"class", "description", "members"}, rows)
			}

			id, err := bind.ParseID(args[0])
			if err != nil {
				return err
			}
			cls, ok := c.LookupClass(id)
			if !ok {
				return fmt.Errorf("no class contains entry id %d: %w", id, errNotFound)
			}
			v := newClassView(cls)
			return f.PrintData(v, []string{"class", "description", "members"}, [][]string{
				{strconv.Itoa(v.ID), v.Description, strings.Join(v.Members, ",")},
			})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List every class with its member ranges")

	return cmd
}

func newVendorCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "vendor [vendor-id]",
		Short:   "List vendors, or the entries of one vendor",
		GroupID: "query",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			f := formatterFor(cmd)

			if len(args) == 0 {
				type vendorView struct {
					VendorID string `json:"vendor_id" yaml:"vendor_id"`
					Entries  int    `json:"entries" yaml:"entries"`
				}
				vendors := c.Vendors()
				views := make([]vendorView, 0, len(vendors))
				rows := make([][]string, 0, len(vendors))
				for _, v := range vendors {
					n := len(c.EntriesByVendor(v))
					views = append(views, vendorView{VendorID: v, Entries: n})
					rows = append(rows, []string{v, strconv.Itoa(n)})
				}
				return f.PrintData(views, []string{"vendor", "entries"}, rows)
			}

			entries := c.EntriesByVendor(args[0])
			if len(entries) == 0 {
				return fmt.Errorf("vendor %q: %w", args[0], errNotFound)
			}
			views := make([]entryView, 0, len(entries))
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				v := newEntryView(c, e)
				views = append(views, v)
				rows = append(rows, []string{strconv.Itoa(v.ID), v.Description, classLabel(v.ClassID, v.Class), strconv.Itoa(len(v.Fingerprints))})
			}
			return f.PrintData(views, []string{"os", "description", "class", "fingerprints"}, rows)
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
