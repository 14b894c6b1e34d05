// Command travel is a terminal front end for the TripGo travel API. It keeps
// its session state in a local file store and exposes the booking flow as
// subcommands: browse the catalog, sign in, pick a room, pay with a mock QR
// ticket and review trips.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/account"
	"github.com/jrsteele09/go-travel-client/booking"
	"github.com/jrsteele09/go-travel-client/home"
	"github.com/jrsteele09/go-travel-client/hotel"
	"github.com/jrsteele09/go-travel-client/internal/config"
	clienterrors "github.com/jrsteele09/go-travel-client/internal/errors"
	"github.com/jrsteele09/go-travel-client/recommend"
	"github.com/jrsteele09/go-travel-client/restclient"
	"github.com/jrsteele09/go-travel-client/session"
	"github.com/jrsteele09/go-travel-client/social"
	"github.com/jrsteele09/go-travel-client/storage/filestore"
	"github.com/jrsteele09/go-travel-client/token"
	"github.com/jrsteele09/go-travel-client/trips"
)

const usage = `usage: travel <command> [arguments]

  register -email <email> -password <password> -name <full name> [-phone <phone>]
                                              create an account
  login -email <email> -password <password>   sign in and store the session
  login-google                                sign in with a Google account
  logout                                      sign out and clear the session
  whoami                                      show the current session
  home                                        featured locations, hotels and tours
  hotels -location <id>                       hotels for a location
  hotel -id <id>                              hotel detail with rooms
  book -hotel <id> -room <id> -in <date> -out <date> [-guests <n>]
                                              stage a room for payment
  pay                                         issue a mock QR payment ticket
  trips                                       list my hotel bookings
  recommend                                   personalised hotel suggestions
  favorite -id <id>                           toggle a hotel favourite
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cfg := config.New()
	app, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetRequestTimeout())
	defer cancel()

	command, commandArgs := args[0], args[1:]
	switch command {
	case "register":
		return app.register(ctx, commandArgs)
	case "login":
		return app.login(ctx, commandArgs)
	case "login-google":
		return app.loginGoogle()
	case "logout":
		return app.logout(ctx)
	case "whoami":
		return app.whoami()
	case "home":
		return app.home(ctx)
	case "hotels":
		return app.hotelsByLocation(ctx, commandArgs)
	case "hotel":
		return app.hotelDetail(ctx, commandArgs)
	case "book":
		return app.book(ctx, commandArgs)
	case "pay":
		return app.pay()
	case "trips":
		return app.trips(ctx)
	case "recommend":
		return app.recommend(ctx)
	case "favorite":
		return app.favorite(ctx, commandArgs)
	case "help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return errors.Errorf("unknown command %q", command)
	}
}

type app struct {
	cfg           config.Config
	session       *session.Controller
	accounts      *account.Service
	catalog       *home.Service
	hotelService  *hotel.Service
	tripService   *trips.Service
	recommender   *recommend.Service
	tokens        *token.Store
	bookingsStore *booking.Store
}

func newApp(cfg config.Config) (*app, error) {
	displayAppname(cfg.GetAppName())

	logger := zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	storeOpts := []filestore.Option{}
	if secret := config.GetEnv("STATE_SECRET", ""); secret != "" {
		storeOpts = append(storeOpts, filestore.WithSecret([]byte(secret)))
	}
	store, err := filestore.New(filepath.Join(cfg.GetDataFolder(), "travel-state.json"), storeOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] filestore.New")
	}

	tokens, err := token.NewStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] token.NewStore")
	}
	bookings, err := booking.NewStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] booking.NewStore")
	}

	httpClient := &http.Client{Timeout: cfg.GetRequestTimeout()}
	apiClient, err := restclient.New(cfg.GetAPIBaseURL(), tokens,
		restclient.WithHTTPClient(httpClient),
		restclient.WithLogger(logger),
		restclient.WithRateLimit(10, 5),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] restclient.New api")
	}
	recommenderClient, err := restclient.New(cfg.GetRecommenderBaseURL(), tokens,
		restclient.WithHTTPClient(httpClient),
		restclient.WithLogger(logger),
		restclient.WithoutRefresh(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] restclient.New recommender")
	}

	accounts, err := account.NewService(apiClient, tokens)
	if err != nil {
		return nil, err
	}
	homeService, err := home.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	hotelService, err := hotel.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	tripService, err := trips.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	recommendService, err := recommend.NewService(recommenderClient, tokens)
	if err != nil {
		return nil, err
	}
	controller, err := session.NewController(accounts)
	if err != nil {
		return nil, err
	}
	controller.CheckAuth()

	return &app{
		cfg:           cfg,
		session:       controller,
		accounts:      accounts,
		catalog:       homeService,
		hotelService:  hotelService,
		tripService:   tripService,
		recommender:   recommendService,
		tokens:        tokens,
		bookingsStore: bookings,
	}, nil
}

func (a *app) register(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	name := flags.String("name", "", "full name")
	phone := flags.String("phone", "", "phone number")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" || *name == "" {
		return errors.New("register requires -email, -password and -name")
	}

	created, err := a.accounts.Register(ctx, account.RegisterRequest{
		Email:       *email,
		Password:    *password,
		FullName:    *name,
		PhoneNumber: *phone,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (account %d). Run `travel login` to sign in.\n", created.Email, created.ID)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	state := a.session.State()
	fmt.Printf("Signed in as %s (account %d)\n", state.User.Email, state.User.AccountID)
	return nil
}

// loginGoogle walks the authorization-code flow by hand: open the consent
// URL in a browser, paste the code back into the terminal. The verified
// identity is displayed but the backend has no social session exchange yet,
// so the stored session is left untouched.
func (a *app) loginGoogle() error {
	signIn, err := social.NewGoogleSignIn(context.Background(), a.cfg.GetGoogleOAuthConfig(), a.cfg.GetGoogleIssuer())
	if err != nil {
		return err
	}

	state := uuid.NewString()
	fmt.Printf("Open this URL in a browser and approve access:\n  %s\n", signIn.ConsentURL(state))
	fmt.Print("Paste the authorization code: ")
	var code string
	if _, err := fmt.Scanln(&code); err != nil {
		return errors.Wrap(err, "[app.loginGoogle] read code")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.GetRequestTimeout())
	defer cancel()
	identity, err := signIn.Exchange(ctx, code)
	if err != nil {
		return err
	}
	fmt.Printf("Verified Google identity %s <%s>\n", identity.Name, identity.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Println("Signed out")
	return nil
}

func (a *app) whoami() error {
	state := a.session.State()
	if state.Status != session.StatusAuthenticated {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("Account %d <%s>\n", state.User.AccountID, state.User.Email)
	for _, role := range state.User.Roles {
		fmt.Printf("  role: %s\n", role)
	}
	if expiry, ok := a.tokens.AccessTokenExpiry(); ok {
		fmt.Printf("  access token expires %s\n", expiry.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *app) home(ctx context.Context) error {
	locations, err := a.catalog.FeaturedLocations(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Featured locations:")
	for _, location := range locations {
		fmt.Printf("  [%d] %s\n", location.ID, location.Name)
	}

	hotels, err := a.catalog.FeaturedHotels(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Featured hotels:")
	for _, h := range hotels {
		fmt.Printf("  [%d] %s (%d*) from %s, %s\n", h.ID, h.Name, h.StarRating, formatPrice(h.MinPrice), h.LocationName)
	}

	tours, err := a.catalog.FeaturedTours(ctx, 1, 5)
	if err != nil {
		return err
	}
	fmt.Println("Featured tours:")
	for _, tour := range tours {
		fmt.Printf("  [%d] %s (%s) %s\n", tour.ID, tour.Title, tour.Duration, formatPrice(tour.Price))
	}

	for _, destination := range a.catalog.CountryLocations(ctx) {
		fmt.Printf("Explore %s (%d places)\n", destination.Name, destination.Count)
	}
	return nil
}

func (a *app) hotelsByLocation(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("hotels", flag.ExitOnError)
	locationID := flags.Int64("location", 0, "location id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *locationID == 0 {
		return errors.New("hotels requires -location")
	}

	hotels, err := a.catalog.HotelsByLocation(ctx, *locationID)
	if err != nil {
		return err
	}
	for _, h := range hotels {
		fmt.Printf("[%d] %s (%d*) from %s\n", h.ID, h.Name, h.StarRating, formatPrice(h.MinPrice))
	}
	return nil
}

func (a *app) hotelDetail(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("hotel", flag.ExitOnError)
	hotelID := flags.Int64("id", 0, "hotel id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *hotelID == 0 {
		return errors.New("hotel requires -id")
	}

	detail, err := a.hotelService.Detail(ctx, *hotelID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d*)\n%s\n", detail.Name, detail.StarRating, detail.Address)
	fmt.Printf("Rating %.1f from %d reviews\n", detail.AverageRating, detail.TotalReviews)
	fmt.Println("Rooms:")
	for _, room := range detail.Rooms {
		availability := "available"
		if !room.IsAvailable {
			availability = "sold out"
		}
		fmt.Printf("  [%d] %s, sleeps %d, %s/night (%s)\n", room.ID, room.Name, room.Capacity, formatPrice(room.Price), availability)
	}
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("book", flag.ExitOnError)
	hotelID := flags.Int64("hotel", 0, "hotel id")
	roomID := flags.Int64("room", 0, "room id")
	checkIn := flags.String("in", "", "check-in date (YYYY-MM-DD)")
	checkOut := flags.String("out", "", "check-out date (YYYY-MM-DD)")
	guests := flags.Int("guests", 1, "number of guests")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *hotelID == 0 || *roomID == 0 || *checkIn == "" || *checkOut == "" {
		return errors.New("book requires -hotel, -room, -in and -out")
	}

	detail, err := a.hotelService.Detail(ctx, *hotelID)
	if err != nil {
		return err
	}
	var room *hotel.Room
	for i := range detail.Rooms {
		if detail.Rooms[i].ID == *roomID {
			room = &detail.Rooms[i]
			break
		}
	}
	if room == nil {
		return errors.Errorf("hotel %d has no room %d", *hotelID, *roomID)
	}

	selection, err := booking.NewSelection(
		booking.HotelSummary{ID: detail.ID, Name: detail.Name, Address: detail.Address, StarRating: detail.StarRating},
		booking.RoomSummary{ID: room.ID, Name: room.Name, Price: room.Price, Capacity: room.Capacity, Area: room.Area},
		*checkIn, *checkOut, *guests,
	)
	if err != nil {
		return err
	}
	if err := a.bookingsStore.SaveBooking(selection); err != nil {
		return err
	}
	fmt.Printf("Staged %s at %s: %d night(s), %s total. Run `travel pay` to get a payment ticket.\n",
		room.Name, detail.Name, selection.Nights, formatPrice(selection.TotalPrice))
	return nil
}

func (a *app) pay() error {
	selection, ok := a.bookingsStore.GetBooking()
	if !ok {
		return errors.Wrap(clienterrors.ErrNoBooking, "run `travel book` first")
	}

	ticket := booking.NewQRTicket(selection, time.Now())
	remaining, err := ticket.Remaining(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Scan to pay %s for %s:\n", formatPrice(ticket.Amount), selection.Hotel.Name)
	fmt.Printf("  %s\n", ticket.Payload)
	fmt.Printf("Ticket valid for %s\n", remaining.Round(time.Second))
	return nil
}

func (a *app) trips(ctx context.Context) error {
	bookings, err := a.tripService.MyHotels(ctx)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Println("No hotel bookings yet")
		return nil
	}
	for _, b := range bookings {
		fmt.Printf("[%s] %s at %s, %s to %s, %s (%s)\n",
			b.BookingCode, b.RoomName, b.HotelName, b.CheckInDate, b.CheckOutDate, formatPrice(b.TotalPrice), b.Status)
	}
	return nil
}

func (a *app) recommend(ctx context.Context) error {
	recommendations := a.recommender.HotelRecommendations(ctx, 0)
	if len(recommendations) == 0 {
		fmt.Println("No recommendations right now")
		return nil
	}
	for _, r := range recommendations {
		fmt.Printf("[%d] %s (%d*) score %.2f\n", r.HotelID, r.Name, r.StarRating, r.HybridScore)
	}
	return nil
}

func (a *app) favorite(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("favorite", flag.ExitOnError)
	hotelID := flags.Int64("id", 0, "hotel id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *hotelID == 0 {
		return errors.New("favorite requires -id")
	}

	isFavorite, err := a.hotelService.ToggleFavorite(ctx, *hotelID)
	if err != nil {
		return err
	}
	if isFavorite {
		fmt.Printf("Hotel %d added to favourites\n", *hotelID)
	} else {
		fmt.Printf("Hotel %d removed from favourites\n", *hotelID)
	}
	return nil
}

func formatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " VND"
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
