package schedule

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rickar/cal/v2"
	"gopkg.in/yaml.v3"

	"github.com/fixhub-io/fixhub-ce/internal/config"
)

// Calendar gates bookings to the workshop's business hours, wrapping
// rickar/cal. When enforcement is disabled every interval is allowed.
type Calendar struct {
	enforce bool
	cal     *cal.BusinessCalendar
}

type holidayFile struct {
	Holidays []struct {
		Name  string `yaml:"name"`
		Month int    `yaml:"month"`
		Day   int    `yaml:"day"`
	} `yaml:"holidays"`
}

// NewCalendar builds a Calendar from configuration.
func NewCalendar(cfg config.CalendarConfig) *Calendar {
	c := cal.NewBusinessCalendar()
	c.SetWorkHours(
		time.Duration(cfg.WorkdayStart)*time.Hour,
		time.Duration(cfg.WorkdayEnd)*time.Hour,
	)
	c.SetWorkday(time.Saturday, cfg.WorkSaturday)
	c.SetWorkday(time.Sunday, cfg.WorkSunday)

	if cfg.HolidaysFile != "" {
		if err := loadHolidays(cfg.HolidaysFile, c); err != nil {
			log.Printf("calendar: %v", err)
		}
	}

	return &Calendar{enforce: cfg.Enforce, cal: c}
}

func loadHolidays(path string, c *cal.BusinessCalendar) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read holidays file: %w", err)
	}
	var f holidayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse holidays file: %w", err)
	}
	for _, h := range f.Holidays {
		c.AddHoliday(&cal.Holiday{
			Name:  h.Name,
			Type:  cal.ObservancePublic,
			Month: time.Month(h.Month),
			Day:   h.Day,
		})
	}
	return nil
}

// AllowsInterval reports whether both endpoints of the proposed interval
// fall within business hours.
func (c *Calendar) AllowsInterval(start, end time.Time) bool {
	if c == nil || !c.enforce {
		return true
	}
	return c.cal.IsWorkTime(start) && c.cal.IsWorkTime(end)
}
